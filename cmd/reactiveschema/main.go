// Command reactiveschema loads a JSON Schema and a JSON instance, builds a
// reactive SchemaRuntime, and prints the validation result. With -watch it
// additionally reads a stream of JSON-Pointer "path=value" patches from
// stdin, applies each as setValue, and prints the change events it emits.
//
// Usage:
//
//	reactiveschema -schema schema.json -instance instance.json
//	reactiveschema -schema schema.yaml -instance instance.yaml -watch
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	jsonschema "github.com/kaptinlin/reactiveschema"
)

var (
	schemaPath   = flag.String("schema", "", "path to the JSON Schema document (.json, .yaml, .yml)")
	overlayPath  = flag.String("overlay", "", "optional second schema document, compiled on its own and then unioned onto the compiled -schema (accepts either document's shape)")
	instancePath = flag.String("instance", "", "path to the instance document to validate (.json, .yaml, .yml); defaults to null")
	watch        = flag.Bool("watch", false, "read \"path=value\" patch lines from stdin and apply them as setValue calls")
	autoFill     = flag.String("autofill", "explicit", "default-fill strategy: never, explicit, or always")
)

func main() {
	flag.Parse()

	color.Output = colorable.NewColorableStdout()
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	if *schemaPath == "" {
		log.Fatal(jsonschema.ErrMissingSchemaFlag)
	}

	schemaDoc, err := loadDocument(*schemaPath)
	if err != nil {
		log.Fatalf("reading schema: %v", err)
	}

	schemaJSON, err := json.Marshal(schemaDoc)
	if err != nil {
		log.Fatalf("encoding schema: %v", err)
	}

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(schemaJSON)
	if err != nil {
		log.Fatalf("compiling schema: %v", err)
	}

	if *overlayPath != "" {
		overlayDoc, err := loadDocument(*overlayPath)
		if err != nil {
			log.Fatalf("reading overlay: %v", err)
		}
		overlayJSON, err := json.Marshal(overlayDoc)
		if err != nil {
			log.Fatalf("encoding overlay: %v", err)
		}
		overlay, err := compiler.Compile(overlayJSON)
		if err != nil {
			log.Fatalf("compiling overlay: %v", err)
		}
		schema = jsonschema.MergeSchemas(schema, overlay)
	}

	var instance any
	if *instancePath != "" {
		instance, err = loadDocument(*instancePath)
		if err != nil {
			log.Fatalf("reading instance: %v", err)
		}
	}

	strategy, err := parseAutoFill(*autoFill)
	if err != nil {
		log.Fatal(err)
	}

	runtime := jsonschema.NewSchemaRuntime(schema, instance, jsonschema.RuntimeOptions{AutoFillDefaults: strategy})

	printResult("#", runtime)

	if *watch {
		runWatch(runtime)
	}
}

func parseAutoFill(name string) (jsonschema.AutoFillStrategy, error) {
	switch name {
	case "never":
		return jsonschema.AutoFillNever, nil
	case "explicit":
		return jsonschema.AutoFillExplicit, nil
	case "always":
		return jsonschema.AutoFillAlways, nil
	default:
		return "", fmt.Errorf("unknown -autofill value %q", name)
	}
}

// loadDocument reads a JSON or YAML file into a generic any tree. YAML is
// decoded through goccy/go-yaml; the rest of the pipeline never needs to
// care which format a document came from once it is a plain any tree.
func loadDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc any
	if isYAMLPath(path) {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func isYAMLPath(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

func printResult(path string, runtime *jsonschema.SchemaRuntime) {
	node := runtime.FindNode(path)
	if node == nil {
		fmt.Printf("%s: no such node\n", path)
		return
	}

	result := node.Schema.Validate(node.Value)
	if result.IsValid() {
		color.Green("%s: valid (type=%s)", path, node.Type)
		return
	}

	color.Red("%s: invalid (type=%s)", path, node.Type)
	for loc, fieldErr := range result.Errors {
		fmt.Printf("  %s: %s\n", loc, fieldErr.Error())
	}
}

// runWatch reads "path=value" lines from stdin, applies each via setValue,
// and prints the events the runtime emits in response.
func runWatch(runtime *jsonschema.SchemaRuntime) {
	unsubscribe := runtime.Subscribe("#", func(evt jsonschema.Event) {
		fmt.Printf("event: %s %s\n", evt.Type, evt.Path)
	})
	defer unsubscribe()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		path, rawValue, ok := strings.Cut(line, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "skipping malformed patch line: %q\n", line)
			continue
		}

		var value any
		if err := json.Unmarshal([]byte(rawValue), &value); err != nil {
			fmt.Fprintf(os.Stderr, "skipping patch with invalid value %q: %v\n", rawValue, err)
			continue
		}

		if err := runtime.SetValue(path, value); err != nil {
			fmt.Fprintf(os.Stderr, "setValue %s failed: %v\n", path, err)
			continue
		}

		printResult(path, runtime)
	}
}
