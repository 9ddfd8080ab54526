package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/joseph-ayodele/packlist/internal/entity"
)

type stubRunner struct {
	calls  [][]string
	stdout []byte
	err    error
	onRun  func(args []string) error
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	if s.onRun != nil {
		if err := s.onRun(args); err != nil {
			return nil, []byte("boom"), err
		}
	}
	return s.stdout, nil, s.err
}

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t1000\t1000\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t60\t20\t96.5\tPACKING\n" +
	"5\t1\t1\t1\t1\t2\t75\t10\t40\t20\t93.5\tLIST\n" +
	"5\t1\t1\t1\t2\t1\t10\t40\t50\t20\t80\t.250\"\n" +
	"5\t1\t1\t1\t2\t2\t200\t40\t30\t20\t70\t3\n" +
	"5\t1\t1\t1\t2\t3\t235\t40\t30\t20\t-1\t \n"

func TestParseTSV(t *testing.T) {
	rec := ParseTSV(sampleTSV)
	want := "PACKING LIST\n.250\"  3"
	if rec.Text != want {
		t.Errorf("text = %q, want %q", rec.Text, want)
	}
	if math.Abs(rec.Confidence-85) > 1e-9 {
		t.Errorf("confidence = %v, want 85", rec.Confidence)
	}
	if got := ParseTSV(""); got.Text != "" || got.Confidence != 0 {
		t.Errorf("empty TSV = %+v", got)
	}
}

func TestTesseractEngineArgs(t *testing.T) {
	r := &stubRunner{stdout: []byte(sampleTSV)}
	e := NewTesseractEngine(TesseractConfig{PSM: 6, TessdataDir: "/td"}, r, nil)

	var seen []float64
	rec, err := e.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 4, 4)), func(f float64) { seen = append(seen, f) })
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if !strings.HasPrefix(rec.Text, "PACKING LIST") {
		t.Errorf("text = %q", rec.Text)
	}
	args := r.calls[0]
	if args[0] != "tesseract" || args[len(args)-1] != "tsv" {
		t.Errorf("args = %v", args)
	}
	for _, want := range []string{"--psm", "6", "--tessdata-dir", "/td", "-l", "eng"} {
		if !slices.Contains(args, want) {
			t.Errorf("args %v missing %q", args, want)
		}
	}
	if len(seen) == 0 || seen[len(seen)-1] != 1 {
		t.Errorf("progress = %v", seen)
	}
}

func TestTesseractEngineError(t *testing.T) {
	r := &stubRunner{err: errors.New("exit 1")}
	e := NewTesseractEngine(TesseractConfig{}, r, nil)
	if _, err := e.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 1, 1)), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestPdftoppmRenderer(t *testing.T) {
	r := &stubRunner{}
	r.onRun = func(args []string) error {
		prefix := args[len(args)-1]
		f, err := os.Create(prefix + ".png")
		if err != nil {
			return err
		}
		defer f.Close()
		img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		img.Set(0, 0, color.NRGBA{A: 0}) // transparent becomes white
		img.Set(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
		return png.Encode(f, img)
	}
	out, err := NewPdftoppmRenderer("", r, nil).Render(context.Background(), "/tmp/in.pdf", 2, DefaultScale)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	args := r.calls[0]
	for _, want := range []string{"-f", "2", "-l", "-r", "216", "-png", "-singlefile", "/tmp/in.pdf"} {
		if !slices.Contains(args, want) {
			t.Errorf("args %v missing %q", args, want)
		}
	}
	if r, g, b, _ := out.At(0, 0).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("transparent pixel not flattened to white: %v %v %v", r, g, b)
	}
	if r, _, _, _ := out.At(1, 0).RGBA(); r != 0 {
		t.Errorf("black pixel changed: %v", r)
	}
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		in   uint8
		want uint8
	}{
		{0, 0},
		{255, 255},
		{128, 128},
		{150, 161},
		{90, 36},   // stretched to 71, then halved
		{180, 231}, // stretched to 206, then pushed toward white
	}
	for _, tt := range tests {
		img := image.NewGray(image.Rect(0, 0, 1, 1))
		img.SetGray(0, 0, color.Gray{Y: tt.in})
		got := Preprocess(img).GrayAt(0, 0).Y
		if diff := int(got) - int(tt.want); diff < -1 || diff > 1 {
			t.Errorf("Preprocess(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

type fakeRenderer struct{ fail map[int]bool }

func (f fakeRenderer) Render(_ context.Context, _ string, page int, _ float64) (image.Image, error) {
	if f.fail[page] {
		return nil, errors.New("render failed")
	}
	// width encodes the page so the engine can see the order
	return image.NewGray(image.Rect(0, 0, page, 1)), nil
}

type fakeEngine struct{ order []int }

func (f *fakeEngine) Recognize(_ context.Context, img *image.Gray, progress func(float64)) (Recognition, error) {
	page := img.Bounds().Dx()
	f.order = append(f.order, page)
	progress(0.5)
	return Recognition{Text: "page\t\t" + string(rune('0'+page)), Confidence: 90}, nil
}

func TestProcessorRunIsSequential(t *testing.T) {
	eng := &fakeEngine{}
	p := NewProcessor(fakeRenderer{fail: map[int]bool{2: true}}, eng, 0, nil)

	var progress []float64
	results, err := p.Run(context.Background(), []byte("%PDF-1.4"), 3, func(f float64) { progress = append(progress, f) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !slices.Equal(eng.order, []int{1, 3}) {
		t.Errorf("engine order = %v", eng.order)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Text != "page  1" || results[0].Page != 0 {
		t.Errorf("result 0 = %+v", results[0])
	}
	if results[1].Text != "" || results[1].Confidence != 0 {
		t.Errorf("failed page = %+v, want empty", results[1])
	}
	if !slices.IsSorted(progress) || progress[len(progress)-1] != 1 {
		t.Errorf("progress = %v", progress)
	}
}

func TestProcessorRunHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProcessor(fakeRenderer{}, &fakeEngine{}, 0, nil).Run(ctx, []byte("%PDF"), 2, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAssess(t *testing.T) {
	good := Assess([]entity.OcrResult{{Page: 0, Confidence: 90}, {Page: 1, Confidence: 80}}, 0)
	if !good.Acceptable || good.Warning() != "" || good.Average != 85 {
		t.Errorf("good = %+v", good)
	}
	bad := Assess([]entity.OcrResult{{Page: 0, Confidence: 90}, {Page: 1, Confidence: 30}}, 70)
	if bad.Acceptable || !slices.Equal(bad.LowPages, []int{2}) {
		t.Errorf("bad = %+v", bad)
	}
	if w := bad.Warning(); !strings.Contains(w, "60%") || !strings.Contains(w, "low pages: 2") {
		t.Errorf("warning = %q", w)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a\r\nb", "a\nb"},
		{"SIZE\t\tPCS", "SIZE  PCS"},
		{"A      B", "A  B"},
		{"½\" X 48", "1/2\" X 48"},
		{"48″ X 96", "48\" X 96"},
		{"top\n-----\nbottom", "top\n\nbottom"},
		{"x\n\n\n\ny", "x\n\ny"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVisionEngine(t *testing.T) {
	e := &VisionEngine{
		annotate: func(_ context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
			if got := req.GetRequests()[0].GetFeatures()[0].GetType(); got != visionpb.Feature_DOCUMENT_TEXT_DETECTION {
				t.Errorf("feature = %v", got)
			}
			return &visionpb.BatchAnnotateImagesResponse{
				Responses: []*visionpb.AnnotateImageResponse{{
					FullTextAnnotation: &visionpb.TextAnnotation{
						Text:  "PACKING LIST",
						Pages: []*visionpb.Page{{Confidence: 0.9}, {Confidence: 0.7}},
					},
				}},
			}, nil
		},
		logger: slog.Default(),
	}
	rec, err := e.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 1, 1)), nil)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if rec.Text != "PACKING LIST" || math.Abs(rec.Confidence-80) > 1e-4 {
		t.Errorf("rec = %+v", rec)
	}
}
