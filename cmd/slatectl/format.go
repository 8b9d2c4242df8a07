// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	outputYAML  = "yaml"
	outputJSON  = "json"
	outputTable = "table"
)

// writeStructured renders v as YAML or indented JSON.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case outputYAML, "":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown output format %q (want yaml or json)", format)
	}
}
