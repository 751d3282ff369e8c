package codec

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/nissyi-gh/actionlist/internal/model"
)

//go:embed items.schema.json
var itemsSchema []byte

const schemaURL = "items.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Result is the outcome of decoding a document. Items is only set when Valid.
type Result struct {
	Items  []model.Item
	Valid  bool
	Errors []error
}

// Err returns nil for a valid result, otherwise an error wrapping ErrInvalidFormat.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	if len(r.Errors) == 0 {
		return ErrInvalidFormat
	}
	return fmt.Errorf("%w: %w", ErrInvalidFormat, errors.Join(r.Errors...))
}

func invalid(errs ...error) Result {
	return Result{Valid: false, Errors: errs}
}

// EncodeJSON writes items as an indented JSON array with a trailing newline.
func EncodeJSON(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeJSON parses and validates a JSON document. Any violation rejects the
// whole document.
func DecodeJSON(data []byte) Result {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		if err == nil {
			err = errors.New("malformed JSON")
		}
		return invalid(fmt.Errorf("parse document: %w", err))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return invalid(fmt.Errorf("parse document: %w", err))
	}

	if errs := validate(doc); len(errs) > 0 {
		return invalid(errs...)
	}

	entries, _ := doc.([]any)
	items := make([]model.Item, 0, len(entries))
	missingID := make([]int, 0)
	for _, e := range entries {
		fields, _ := e.(map[string]any)
		it, ok := itemFromObject(fields)
		if !ok {
			missingID = append(missingID, len(items))
		}
		items = append(items, it)
	}
	assignIDs(items, missingID)
	return Result{Items: items, Valid: true}
}

// EncodeYAML writes items as a YAML sequence using the same field names as JSON.
func EncodeYAML(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	data, err := yaml.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	return data, nil
}

// DecodeYAML parses a YAML document and validates it exactly like DecodeJSON.
func DecodeYAML(data []byte) Result {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return invalid(fmt.Errorf("YAML parse error: %w", err))
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return invalid(fmt.Errorf("convert YAML document: %w", err))
	}
	return DecodeJSON(asJSON)
}

// itemFromObject converts a schema-checked object. Optional fields that are
// null or of an unexpected type take their zero value. The bool result is
// false when the id is not numeric and has to be generated.
func itemFromObject(fields map[string]any) (model.Item, bool) {
	id, ok := idFromValue(fields["id"])
	return model.Item{
		ID:            id,
		Text:          stringValue(fields["text"]),
		Project:       stringValue(fields["project"]),
		DateAdded:     stringValue(fields["dateAdded"]),
		ScheduledFor:  model.Date(stringValue(fields["scheduledFor"])),
		DateCompleted: model.Date(stringValue(fields["dateCompleted"])),
		IsCompleted:   boolValue(fields["isCompleted"]),
		Notes:         stringValue(fields["notes"]),
	}, ok
}

func idFromValue(v any) (int64, bool) {
	var n json.Number
	switch v := v.(type) {
	case json.Number:
		n = v
	case string:
		n = json.Number(strings.TrimSpace(v))
	default:
		return 0, false
	}
	id, err := numberToID(n)
	if err != nil {
		return 0, false
	}
	return id, true
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func boolValue(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// numberToID truncates fractional ids toward zero.
func numberToID(n json.Number) (int64, error) {
	if id, err := n.Int64(); err == nil {
		return id, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", n.String())
	}
	if math.IsNaN(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("id out of range: %s", n.String())
	}
	return int64(f), nil
}

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(itemsSchema)); err != nil {
			schemaErr = fmt.Errorf("load items schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile items schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

func validate(doc any) []error {
	s, err := schema()
	if err != nil {
		return []error{err}
	}
	err = s.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	if len(errs) == 0 {
		errs = append(errs, &ValidationError{Err: errors.New(ve.Message)})
	}
	return errs
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
