// Command schemagen generates the JSON schema for the openact
// configuration file. The output is committed alongside the config package
// and embedded for validation.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/openact/openact/pkg/config"
)

var outFile = flag.String("o", "schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	r := &jsonschema.Reflector{}

	err := r.AddGoComments("github.com/openact/openact", "../../pkg/config")
	if err != nil {
		log.Fatalf("add go comments: %v", err)
	}

	jss := r.Reflect(config.New())
	jss.ID = "https://github.com/openact/openact/pkg/config/config.v1beta1.json"

	jsData, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
