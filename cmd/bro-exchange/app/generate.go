package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bro-exchange/bro-exchange/internal/status"
	"github.com/bro-exchange/bro-exchange/pkg/broxml"
	"github.com/bro-exchange/bro-exchange/pkg/broxml/frd"
	"github.com/bro-exchange/bro-exchange/pkg/broxml/gld"
	"github.com/bro-exchange/bro-exchange/pkg/broxml/gmn"
	"github.com/bro-exchange/bro-exchange/pkg/broxml/gmw"
)

var generateCmd = &cobra.Command{
	Use:   "generate <gmw|gmn|gld|frd> <registration|replace|move|delete|insert> <data.yaml>",
	Short: "Generate a request document from a YAML data file",
	Long: `Generate a request document from a YAML data file of the form

  metadata:
    requestReference: ...
    qualityRegime: IMBRO
  srcdoc: GMW_Construction
  data:
    ...

The request is written to --out as <requestReference>.xml and recorded as generated.
A GLD deleteRequest is derived from a previously generated addition given with --from.`,
	Args: cobra.ExactArgs(3),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("out", ".", "Output directory, - writes to stdout")
	generateCmd.Flags().String("from", "", "Existing GLD addition request to turn into a deleteRequest")
}

// generateInput is the data file generate reads
type generateInput struct {
	Metadata       broxml.Metadata `yaml:"metadata"`
	SourceDocument string          `yaml:"srcdoc"`
	Data           yaml.Node       `yaml:"data"`
}

// builder decodes data into a sourcedocument of docType and wraps it in a request
type builder func(kind broxml.Kind, meta *broxml.Metadata, docType string, data *yaml.Node) (*broxml.Request, error)

func newBuilder[D any](
	newDoc func(string) (D, error),
	newRequest func(broxml.Kind, *broxml.Metadata, D) (*broxml.Request, error),
) builder {
	return func(kind broxml.Kind, meta *broxml.Metadata, docType string, data *yaml.Node) (*broxml.Request, error) {
		doc, err := newDoc(docType)
		if err != nil {
			return nil, err
		}
		if data.Kind != 0 {
			if err := data.Decode(doc); err != nil {
				return nil, fmt.Errorf("failed to decode %s data: %w", docType, err)
			}
		}
		return newRequest(kind, meta, doc)
	}
}

var builders = map[string]builder{
	"gmw": newBuilder(gmw.NewSourceDocument, gmw.NewRequest),
	"gmn": newBuilder(gmn.NewSourceDocument, gmn.NewRequest),
	"gld": newBuilder(gld.NewSourceDocument, gld.NewRequest),
	"frd": newBuilder(frd.NewSourceDocument, frd.NewRequest),
}

func registries() string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// buildRequest builds the request described by input. from holds the existing
// addition for a GLD deleteRequest.
func buildRequest(registry string, kind broxml.Kind, input *generateInput, from []byte) (*broxml.Request, error) {
	if registry == "gld" && kind == broxml.KindDelete {
		if from == nil {
			return nil, fmt.Errorf("gld deleteRequest needs the addition to delete, use --from")
		}
		return gld.Delete(from, input.Metadata.CorrectionReason)
	}

	build, ok := builders[registry]
	if !ok {
		return nil, fmt.Errorf("unknown registry %q, expected one of %s", registry, registries())
	}
	return build(kind, &input.Metadata, input.SourceDocument, &input.Data)
}

func readGenerateInput(path string) (*generateInput, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	var input generateInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	return &input, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	kind, err := broxml.ParseKind(args[1])
	if err != nil {
		return err
	}
	input, err := readGenerateInput(args[2])
	if err != nil {
		return err
	}

	var from []byte
	if path, _ := cmd.Flags().GetString("from"); path != "" {
		if from, err = os.ReadFile(filepath.Clean(path)); err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	req, err := buildRequest(strings.ToLower(args[0]), kind, input, from)
	if err != nil {
		return fmt.Errorf("failed to generate %s %s: %w", args[0], kind.Element(), err)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "-" {
		return writeRequest(cmd.OutOrStdout(), req)
	}

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	_, err = generate(ctx, env.records, req, out)
	return err
}

func writeRequest(w io.Writer, req *broxml.Request) error {
	if _, err := req.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write request: %w", err)
	}
	return nil
}

// generate writes req into dir and records it as generated
func generate(ctx context.Context, records status.RecordPersistence, req *broxml.Request, dir string) (string, error) {
	path, err := req.WriteFile(dir, "")
	if err != nil {
		return "", err
	}

	record, err := records.LoadRecord(ctx, req.Reference())
	if err != nil {
		return "", fmt.Errorf("failed to load record: %w", err)
	}
	record.File = path
	record.Phase = status.PhaseGenerated
	record.Message = ""
	if err := records.SaveRecord(ctx, req.Reference(), record); err != nil {
		return "", fmt.Errorf("failed to save record: %w", err)
	}

	slog.Info("Request generated", "reference", req.Reference(), "file", path)
	return path, nil
}
