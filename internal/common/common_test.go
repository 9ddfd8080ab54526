package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"INVENTORY_STORE", "OCR_ENGINE", "OCR_RENDER_SCALE", "MIN_TEXT_CHARS", "QUEUE_WORKERS", "GRPC_ADDR"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	if cfg.OCR.Scale != 3.0 || cfg.OCR.MinConfidence != 70 {
		t.Errorf("ocr defaults = %+v", cfg.OCR)
	}
	if cfg.Pipeline.MinTextChars != 50 || cfg.Pipeline.QueueWorkers != 1 {
		t.Errorf("pipeline defaults = %+v", cfg.Pipeline)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "postgres")
	t.Setenv("INVENTORY_DB_URL", "")
	t.Setenv("INVENTORY_DB_DIAL_TIMEOUT", "7s")
	t.Setenv("OCR_ENGINE", "vision")

	cfg := LoadConfig()
	if cfg.Inventory.DialTimeout != 7*time.Second {
		t.Errorf("dial timeout = %v", cfg.Inventory.DialTimeout)
	}
	err := cfg.Validate()
	var appErr *AppError
	if !errors.As(err, &appErr) || !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("postgres without DSN should fail with AppError, got %v", err)
	}

	t.Setenv("INVENTORY_DB_URL", "postgres://localhost/packlist")
	if err := LoadConfig().Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("filename", "list.pdf", Required, SupportedFile).
		Field("po", "4500-123", PONumber)
	if v.HasErrors() {
		t.Fatalf("unexpected errors: %s", v.ErrorMessage())
	}

	v = NewValidator().
		Field("filename", "photo.heic", Required, SupportedFile).
		Field("po", "PO #12", PONumber).
		Field("store", "mongo", OneOf("file", "sqlite", "postgres"))
	if len(v.Errors()) != 3 {
		t.Fatalf("errors = %d, want 3: %s", len(v.Errors()), v.ErrorMessage())
	}
	if !IsValidationError(v.Error()) {
		t.Error("Validator.Error should wrap ErrValidation")
	}
	st, _ := status.FromError(ValidateAndReturnError(v))
	if st.Code() != codes.InvalidArgument {
		t.Errorf("code = %v", st.Code())
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{WrapError(ErrUnsupportedFormat, "parse"), codes.InvalidArgument},
		{WrapError(ErrNoItems, "extract"), codes.FailedPrecondition},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		st, _ := status.FromError(ToStatus(tt.err))
		if st.Code() != tt.want {
			t.Errorf("ToStatus(%v) = %v, want %v", tt.err, st.Code(), tt.want)
		}
	}
	if ToStatus(nil) != nil {
		t.Error("nil error must map to nil")
	}
}

func TestRunIDIsStable(t *testing.T) {
	ctx, id := WithRunID(context.Background())
	if id == uuid.Nil {
		t.Fatal("expected a run id")
	}
	ctx2, id2 := WithRunID(ctx)
	if id2 != id || RunIDFromContext(ctx2) != id {
		t.Error("WithRunID must keep an existing id")
	}
}
