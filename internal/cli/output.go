package cli

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// print writes v as indented JSON, or as YAML keyed by the same JSON names.
func (g *globals) print(v any) error {
	return write(g.stdout, g.output, v)
}

func write(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if format != "yaml" {
		_, err = w.Write(append(data, '\n'))
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
