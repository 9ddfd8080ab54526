package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// VisionCredentials picks how the Vision client authenticates. Both empty
// falls back to application default credentials.
type VisionCredentials struct {
	File string
	JSON string
}

type annotateFunc func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error)

// VisionEngine sends page images to Google Cloud Vision document text
// detection.
type VisionEngine struct {
	annotate annotateFunc
	close    func() error
	logger   *slog.Logger
}

func NewVisionEngine(ctx context.Context, creds VisionCredentials, logger *slog.Logger) (*VisionEngine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var opts []option.ClientOption
	switch {
	case creds.JSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(creds.JSON)))
	case creds.File != "":
		opts = append(opts, option.WithCredentialsFile(creds.File))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &VisionEngine{
		annotate: func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
			return client.BatchAnnotateImages(ctx, req)
		},
		close:  client.Close,
		logger: logger,
	}, nil
}

func (e *VisionEngine) Recognize(ctx context.Context, img *image.Gray, progress func(float64)) (Recognition, error) {
	report(progress, 0)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Recognition{}, fmt.Errorf("encode page image: %w", err)
	}
	report(progress, 0.2)

	resp, err := e.annotate(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: buf.Bytes()},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
		}},
	})
	if err != nil {
		return Recognition{}, fmt.Errorf("vision annotate: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return Recognition{}, errors.New("vision annotate: empty response")
	}
	r := resp.GetResponses()[0]
	if r.GetError() != nil && r.GetError().GetMessage() != "" {
		return Recognition{}, fmt.Errorf("vision annotate: %s", r.GetError().GetMessage())
	}

	doc := r.GetFullTextAnnotation()
	rec := Recognition{Text: doc.GetText()}
	var sum float64
	for _, p := range doc.GetPages() {
		sum += float64(p.GetConfidence())
	}
	if n := len(doc.GetPages()); n > 0 {
		rec.Confidence = sum / float64(n) * 100
	}
	report(progress, 1)
	e.logger.Debug("ocr.vision.page", "chars", len(rec.Text), "confidence", rec.Confidence)
	return rec, nil
}

func (e *VisionEngine) Close() error {
	if e.close == nil {
		return nil
	}
	return e.close()
}
