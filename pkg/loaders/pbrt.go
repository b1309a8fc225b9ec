package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// ErrUnsupported is returned for PBRT statements the sphere renderer cannot honor
var ErrUnsupported = errors.New("unsupported PBRT statement")

// PBRTStatement represents a parsed PBRT statement
type PBRTStatement struct {
	Type       string               // Statement type (Film, Sampler, Shape, etc.)
	Subtype    string               // Subtype (rgb, independent, sphere, etc.)
	Parameters map[string]PBRTParam // Named parameters
	Offset     core.Vec3            // For shapes: accumulated Translate at the statement
}

// PBRTParam represents a parameter with type and value(s)
type PBRTParam struct {
	Type   string   // Parameter type (float, integer, bool, string)
	Values []string // Parameter values as strings
}

// PBRTScene contains the parsed statements of a sphere-only PBRT file
type PBRTScene struct {
	Film    *PBRTStatement
	Sampler *PBRTStatement
	Shapes  []PBRTStatement
}

// PBRTParser encapsulates the state and logic for parsing PBRT files
type PBRTParser struct {
	scene          *PBRTScene
	offset         core.Vec3   // Current translation
	offsetStack    []core.Vec3 // Saved translations for AttributeBegin/AttributeEnd
	inWorld        bool
	statementLines []string
}

// ParsePBRT parses PBRT content from an io.Reader
func ParsePBRT(reader io.Reader) (*PBRTScene, error) {
	parser := NewPBRTParser()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if err := parser.processLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	if err := parser.finalize(); err != nil {
		return nil, err
	}
	return parser.scene, nil
}

// LoadPBRT loads and parses a PBRT scene file
func LoadPBRT(filename string) (*PBRTScene, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pbrt") {
		return nil, fmt.Errorf("invalid file type: only .pbrt files are allowed")
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PBRT file: %w", err)
	}
	defer file.Close()

	return ParsePBRT(file)
}

// NewPBRTParser creates a new PBRT parser instance
func NewPBRTParser() *PBRTParser {
	return &PBRTParser{scene: &PBRTScene{}}
}

// processLine processes a single line of PBRT input
func (p *PBRTParser) processLine(line string) error {
	line = strings.TrimSpace(line)

	// Skip empty lines and comments
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	switch line {
	case "WorldBegin", "WorldEnd", "AttributeBegin", "AttributeEnd":
		if err := p.processAccumulatedStatement("before " + line); err != nil {
			return err
		}
		return p.processBlock(line)
	}

	if isStatementStart(line) {
		if err := p.processAccumulatedStatement(""); err != nil {
			return err
		}
		p.statementLines = []string{line}
		return nil
	}

	// Continuation of the previous statement
	if len(p.statementLines) == 0 {
		return fmt.Errorf("unexpected continuation line: %s", line)
	}
	p.statementLines = append(p.statementLines, line)
	return nil
}

// processBlock handles the World and Attribute block directives
func (p *PBRTParser) processBlock(directive string) error {
	switch directive {
	case "WorldBegin":
		p.inWorld = true
		p.offset = core.Vec3{}
	case "WorldEnd":
		p.inWorld = false
	case "AttributeBegin":
		p.offsetStack = append(p.offsetStack, p.offset)
	case "AttributeEnd":
		if len(p.offsetStack) == 0 {
			return fmt.Errorf("AttributeEnd without matching AttributeBegin")
		}
		p.offset = p.offsetStack[len(p.offsetStack)-1]
		p.offsetStack = p.offsetStack[:len(p.offsetStack)-1]
	}
	return nil
}

// finalize processes any remaining accumulated statements
func (p *PBRTParser) finalize() error {
	if err := p.processAccumulatedStatement("at end of file"); err != nil {
		return err
	}
	if len(p.offsetStack) != 0 {
		return fmt.Errorf("%d unclosed AttributeBegin blocks", len(p.offsetStack))
	}
	return nil
}

// processAccumulatedStatement processes any accumulated statement lines and clears them
func (p *PBRTParser) processAccumulatedStatement(context string) error {
	if len(p.statementLines) == 0 {
		return nil
	}
	fullStatement := strings.Join(p.statementLines, " ")
	p.statementLines = nil

	stmt, err := parseStatement(fullStatement)
	if err != nil {
		return fmt.Errorf("error parsing statement %s '%s': %w", context, fullStatement, err)
	}
	return p.routeStatement(stmt)
}

// routeStatement records a parsed statement in the scene
func (p *PBRTParser) routeStatement(stmt *PBRTStatement) error {
	switch stmt.Type {
	case "Film":
		p.scene.Film = stmt
	case "Sampler":
		p.scene.Sampler = stmt
	case "Translate":
		offset, err := stmt.vectorValues()
		if err != nil {
			return fmt.Errorf("error parsing Translate: %w", err)
		}
		p.offset = p.offset.Add(offset)
	case "Shape":
		if !p.inWorld {
			return fmt.Errorf("Shape outside WorldBegin/WorldEnd")
		}
		if stmt.Subtype != "sphere" {
			return fmt.Errorf("%w: Shape %q (only spheres are rendered)", ErrUnsupported, stmt.Subtype)
		}
		stmt.Offset = p.offset
		p.scene.Shapes = append(p.scene.Shapes, *stmt)
	case "LookAt", "Rotate", "Scale", "Transform":
		// The camera sits at the origin looking down -Z; only translations keep spheres spherical
		return fmt.Errorf("%w: %s", ErrUnsupported, stmt.Type)
	default:
		// Camera, Integrator, Material and lights do not affect normal shading
	}
	return nil
}

// tokenizePBRT splits a statement into tokens, keeping quoted strings and
// bracketed arrays whole
func tokenizePBRT(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes, inBrackets := false, false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, char := range line {
		switch {
		case char == '"' && !inBrackets:
			current.WriteRune(char)
			if inQuotes {
				flush()
			}
			inQuotes = !inQuotes
		case char == '[' && !inQuotes:
			flush()
			current.WriteRune(char)
			inBrackets = true
		case char == ']' && !inQuotes && inBrackets:
			current.WriteRune(char)
			flush()
			inBrackets = false
		case (char == ' ' || char == '\t') && !inQuotes && !inBrackets:
			flush()
		default:
			current.WriteRune(char)
		}
	}
	flush()

	return tokens
}

// parseStatement parses a single PBRT statement
func parseStatement(line string) (*PBRTStatement, error) {
	// Transform-style statements carry bare numbers instead of parameters
	for _, transform := range []string{"LookAt", "Translate", "Rotate", "Scale", "Transform"} {
		if line == transform || strings.HasPrefix(line, transform+" ") {
			values := strings.Fields(strings.Trim(line[len(transform):], " []"))
			return &PBRTStatement{
				Type: transform,
				Parameters: map[string]PBRTParam{
					"values": {Type: "float", Values: values},
				},
			}, nil
		}
	}

	parts := tokenizePBRT(line)
	if len(parts) == 0 {
		return nil, fmt.Errorf("invalid statement format")
	}

	stmt := &PBRTStatement{
		Type:       parts[0],
		Parameters: make(map[string]PBRTParam),
	}
	parts = parts[1:]

	if len(parts) > 0 && isQuoted(parts[0]) {
		stmt.Subtype = strings.Trim(parts[0], "\"")
		parts = parts[1:]
	}

	for i := 0; i < len(parts); i++ {
		if !isQuoted(parts[i]) {
			return nil, fmt.Errorf("expected quoted parameter declaration, got %s", parts[i])
		}
		decl := strings.Fields(strings.Trim(parts[i], "\""))
		if len(decl) != 2 {
			return nil, fmt.Errorf("invalid parameter declaration %s", parts[i])
		}
		if i+1 >= len(parts) {
			return nil, fmt.Errorf("parameter %s has no value", decl[1])
		}
		i++

		var values []string
		if strings.HasPrefix(parts[i], "[") {
			values = strings.Fields(strings.Trim(parts[i], "[] "))
		} else {
			values = []string{parts[i]}
		}
		for j, v := range values {
			values[j] = strings.Trim(v, "\"")
		}

		stmt.Parameters[decl[1]] = PBRTParam{Type: decl[0], Values: values}
	}

	return stmt, nil
}

func isQuoted(token string) bool {
	return len(token) >= 2 && strings.HasPrefix(token, "\"") && strings.HasSuffix(token, "\"")
}

// vectorValues reads the three bare numbers of a Translate statement
func (stmt *PBRTStatement) vectorValues() (core.Vec3, error) {
	values := stmt.Parameters["values"].Values
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%s requires 3 values, got %d", stmt.Type, len(values))
	}
	var xyz [3]float32
	for i, v := range values {
		parsed, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid coordinate '%s': %w", v, err)
		}
		xyz[i] = float32(parsed)
	}
	return core.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}

// GetFloatParam extracts a float parameter from a PBRT statement
func (stmt *PBRTStatement) GetFloatParam(name string) (float32, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.ParseFloat(param.Values[0], 32)
	if err != nil {
		return 0, false
	}
	return float32(val), true
}

// GetIntParam extracts an integer parameter from a PBRT statement
func (stmt *PBRTStatement) GetIntParam(name string) (int, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.Atoi(param.Values[0])
	if err != nil {
		return 0, false
	}
	return val, true
}

// GetBoolParam extracts a bool parameter from a PBRT statement
func (stmt *PBRTStatement) GetBoolParam(name string) (bool, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return false, false
	}
	val, err := strconv.ParseBool(param.Values[0])
	if err != nil {
		return false, false
	}
	return val, true
}

// isStatementStart determines if a line starts a new PBRT statement
func isStatementStart(line string) bool {
	statementTypes := []string{
		"Camera", "Film", "Sampler", "Integrator", "LookAt",
		"Material", "Shape", "LightSource", "AreaLightSource",
		"Translate", "Rotate", "Scale", "Transform",
		"ReverseOrientation", "Attribute",
	}

	for _, stmt := range statementTypes {
		if strings.HasPrefix(line, stmt+" ") || line == stmt {
			return true
		}
	}
	return false
}
