package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

// fileRequest is the decoded form of a ParseFile or ExportFile request:
// {"filename", "content" (base64), "po", "force_ocr"}.
type fileRequest struct {
	Filename string
	Content  []byte
	Opts     pipeline.Options
}

func (s *PackingListService) decodeFile(req *structpb.Struct) (fileRequest, error) {
	fields := req.GetFields()
	out := fileRequest{
		Filename: strings.TrimSpace(fields["filename"].GetStringValue()),
		Opts: pipeline.Options{
			PO:       strings.TrimSpace(fields["po"].GetStringValue()),
			ForceOCR: fields["force_ocr"].GetBoolValue(),
		},
	}
	v := common.NewValidator().
		Field("filename", out.Filename, common.Required, common.SupportedFile).
		Field("po", out.Opts.PO, common.PONumber)
	if err := common.ValidateAndReturnError(v); err != nil {
		return out, err
	}
	raw := fields["content"].GetStringValue()
	if raw == "" {
		return out, common.InvalidArgumentError("content is required")
	}
	if s.maxUpload > 0 && base64.StdEncoding.DecodedLen(len(raw)) > s.maxUpload {
		return out, common.InvalidArgumentErrorf("content exceeds %d bytes", s.maxUpload)
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return out, common.InvalidArgumentError("content must be base64")
	}
	out.Content = data
	return out, nil
}

func (s *PackingListService) parse(ctx context.Context, req *structpb.Struct) (fileRequest, *pipeline.Result, error) {
	in, err := s.decodeFile(req)
	if err != nil {
		return in, nil, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res, err := s.parser.ParseFile(ctx, in.Content, in.Filename, in.Opts)
	if err != nil {
		return in, nil, err
	}
	return in, res, nil
}

// ParseFile returns the pipeline result as a Struct.
func (s *PackingListService) ParseFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := common.LoggerFrom(ctx, s.logger)
	in, res, err := s.parse(ctx, req)
	if err != nil {
		log.Warn("grpc.parse.failed", "filename", in.Filename, "err", err)
		return nil, common.ToStatus(err)
	}
	log.Info("grpc.parse.ok", "filename", in.Filename, "needs_ocr", res.NeedsOCR, "is_invoice", res.IsInvoice)
	return toStruct(res)
}

// ExportFile parses the file and returns the ERP workbook as base64 in
// "xlsx" together with the item count.
func (s *PackingListService) ExportFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := common.LoggerFrom(ctx, s.logger)
	in, res, err := s.parse(ctx, req)
	if err != nil {
		log.Warn("grpc.export.failed", "filename", in.Filename, "err", err)
		return nil, common.ToStatus(err)
	}
	if res.Document == nil {
		reason := "file needs OCR"
		if res.IsInvoice {
			reason = "file is an invoice"
		}
		return nil, common.ToStatus(fmt.Errorf("%w: %s", common.ErrNoItems, reason))
	}
	xlsx, err := s.exporter.XLSX(ctx, res.Document)
	if err != nil {
		log.Error("grpc.export.failed", "filename", in.Filename, "err", err)
		return nil, common.InternalError(err.Error())
	}
	return structpb.NewStruct(map[string]any{
		"filename": strings.TrimSuffix(in.Filename, filepath.Ext(in.Filename)) + ".xlsx",
		"items":    len(res.Document.Items),
		"xlsx":     base64.StdEncoding.EncodeToString(xlsx),
	})
}

// ListInventory returns {"entries": [...]} in identifier order.
func (s *PackingListService) ListInventory(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	entries := []any{}
	if s.catalog != nil {
		for _, e := range s.catalog.Entries() {
			entries = append(entries, e)
		}
	}
	common.LoggerFrom(ctx, s.logger).Debug("grpc.inventory.list", "entries", len(entries))
	return toStruct(map[string]any{"entries": entries})
}

// toStruct converts v through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, common.InternalError(err.Error())
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, common.InternalError(err.Error())
	}
	return out, nil
}
