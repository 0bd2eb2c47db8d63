package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/respkv/pkg/resp"
)

// YAMLFormatter formats replies as YAML.
type YAMLFormatter struct{}

// Format formats reply as a YAML document.
func (f *YAMLFormatter) Format(w io.Writer, reply resp.Value) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(resp.ToNative(reply)); err != nil {
		return err
	}
	return encoder.Close()
}
