package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

// Client calls a remote PackingListService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// ParseFile uploads data and decodes the reply into a pipeline.Result.
func (c *Client) ParseFile(ctx context.Context, data []byte, filename string, opts pipeline.Options) (*pipeline.Result, error) {
	out, err := c.call(ctx, MethodParseFile, fileRequestStruct(data, filename, opts))
	if err != nil {
		return nil, err
	}
	raw, err := protojson.Marshal(out)
	if err != nil {
		return nil, err
	}
	var res pipeline.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &res, nil
}

// ExportFile returns the ERP workbook for a remote parse.
func (c *Client) ExportFile(ctx context.Context, data []byte, filename string, opts pipeline.Options) ([]byte, error) {
	out, err := c.call(ctx, MethodExportFile, fileRequestStruct(data, filename, opts))
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(out.GetFields()["xlsx"].GetStringValue())
}

func (c *Client) ListInventory(ctx context.Context) (*structpb.Struct, error) {
	return c.call(ctx, MethodListInventory, &structpb.Struct{})
}

func (c *Client) call(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func fileRequestStruct(data []byte, filename string, opts pipeline.Options) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"filename":  structpb.NewStringValue(filename),
		"content":   structpb.NewStringValue(base64.StdEncoding.EncodeToString(data)),
		"po":        structpb.NewStringValue(opts.PO),
		"force_ocr": structpb.NewBoolValue(opts.ForceOCR),
	}}
}
