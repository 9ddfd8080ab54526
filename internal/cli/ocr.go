package cli

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/ingest"
	"github.com/joseph-ayodele/packlist/internal/ocr"
)

type ocrOutput struct {
	Path       string             `json:"path"`
	Pages      []entity.OcrResult `json:"pages"`
	Confidence float64            `json:"confidence"`
	Warning    string             `json:"warning,omitempty"`
}

func newOCRCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "ocr FILE",
		Short: "Run OCR over a scanned PDF or an image and print the recognized text",
		Example: `  packlist ocr scan.pdf
  packlist --ocr-engine vision ocr photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			a, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			progress := progressTo(cmd, true)
			var pages []entity.OcrResult
			switch strings.ToLower(filepath.Ext(path)) {
			case ".pdf":
				doc, err := ingest.NewReader(nil, nil, g.logger).Read(ctx, data, filepath.Base(path))
				if err != nil {
					return err
				}
				pages, err = a.OCR.Run(ctx, data, doc.PageCount(), progress)
				if err != nil {
					return err
				}
			case ".png", ".jpg", ".jpeg":
				img, _, err := image.Decode(bytes.NewReader(data))
				if err != nil {
					return fmt.Errorf("decode image: %w", err)
				}
				rec, err := a.OCR.Recognize(ctx, img, progress)
				if err != nil {
					return err
				}
				pages = []entity.OcrResult{{Page: 0, Text: rec.Text, Confidence: rec.Confidence}}
			default:
				return fmt.Errorf("ocr: unsupported file %s", filepath.Base(path))
			}

			as := ocr.Assess(pages, g.cfg.OCR.MinConfidence)
			return g.print(ocrOutput{Path: path, Pages: pages, Confidence: as.Average, Warning: as.Warning()})
		},
	}
}
