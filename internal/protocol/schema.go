package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "mem://schemas/"

var (
	schemaOnce  sync.Once
	schemaErr   error
	helloSchema *jsonschema.Schema
	cmdSchema   *jsonschema.Schema
)

func loadSchemas() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	for _, name := range []string{"hello.schema.json", "cmd.schema.json"} {
		b, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			schemaErr = err
			return
		}
		if err := c.AddResource(schemaBase+name, bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("schema %s: %w", name, err)
			return
		}
	}
	if helloSchema, schemaErr = c.Compile(schemaBase + "hello.schema.json"); schemaErr != nil {
		return
	}
	cmdSchema, schemaErr = c.Compile(schemaBase + "cmd.schema.json")
}

func validate(s **jsonschema.Schema, b []byte) error {
	schemaOnce.Do(loadSchemas)
	if schemaErr != nil {
		return schemaErr
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return (*s).Validate(v)
}

// ValidateHello checks a raw HELLO frame against the embedded schema.
func ValidateHello(b []byte) error { return validate(&helloSchema, b) }

// ValidateCmd checks a raw CMD frame against the embedded schema.
func ValidateCmd(b []byte) error { return validate(&cmdSchema, b) }
