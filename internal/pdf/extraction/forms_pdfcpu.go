package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"
)

// StrategyForms names the interactive form field strategy
const StrategyForms = "forms"

// maxFieldDepth bounds /Kids recursion in malformed field trees
const maxFieldDepth = 32

// ErrNoAcroForm is returned by ReadFormFields for documents without interactive forms
var ErrNoAcroForm = errors.New("document has no AcroForm")

// FormStrategy reads interactive form field values using pdfcpu
type FormStrategy struct {
	logger *zap.Logger
}

// NewFormStrategy creates the structured-field strategy
func NewFormStrategy(logger *zap.Logger) *FormStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormStrategy{logger: logger}
}

// Name implements Strategy
func (fs *FormStrategy) Name() string { return StrategyForms }

// Extract implements Strategy. A document without a form is an empty result, not a failure.
func (fs *FormStrategy) Extract(_ context.Context, path string) (map[string]string, error) {
	fields, err := fs.ReadFormFields(path)
	if errors.Is(err, ErrNoAcroForm) {
		fs.logger.Debug("no AcroForm dictionary found", zap.String("path", path))
		return map[string]string{}, nil
	}
	return fields, err
}

// ReadFormFields returns fully qualified field names mapped to their trimmed values
func (fs *FormStrategy) ReadFormFields(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return fs.readAcroForm(ctx)
}

func (fs *FormStrategy) readAcroForm(ctx *model.Context) (map[string]string, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, ErrNoAcroForm
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return nil, ErrNoAcroForm
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, ErrNoAcroForm
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	values := make(map[string]string)
	for i, fieldRef := range fieldsArray {
		if err := fs.collectField(ctx, fieldRef, "", 0, values); err != nil {
			fs.logger.Debug("skipping form field", zap.Int("index", i), zap.Error(err))
		}
	}

	return values, nil
}

// collectField records the field and walks its /Kids. Kids without a /T are
// widget annotations of the same field and carry no name of their own.
func (fs *FormStrategy) collectField(ctx *model.Context, obj types.Object, parent string,
	depth int, values map[string]string,
) error {
	if depth > maxFieldDepth {
		return fmt.Errorf("field tree deeper than %d", maxFieldDepth)
	}

	fieldDict, err := ctx.DereferenceDict(obj)
	if err != nil {
		return fmt.Errorf("failed to dereference field: %w", err)
	}
	if fieldDict == nil {
		return nil
	}

	name := parent
	if nameObj, found := fieldDict.Find("T"); found {
		partial, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil)
		if err != nil {
			return fmt.Errorf("failed to read field name: %w", err)
		}
		if parent != "" {
			name = parent + "." + partial
		} else {
			name = partial
		}

		value := ""
		if valueObj, found := fieldDict.Find("V"); found {
			value = fs.fieldValue(ctx, valueObj)
		}
		values[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return nil
	}
	kids, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		return fmt.Errorf("failed to dereference Kids of %s: %w", name, err)
	}
	for _, kid := range kids {
		if err := fs.collectField(ctx, kid, name, depth+1, values); err != nil {
			fs.logger.Debug("skipping form field kid", zap.String("parent", name), zap.Error(err))
		}
	}
	return nil
}

// fieldValue renders /V as text. Names keep their leading slash so checkbox
// states read "/Yes" or "/Off".
func (fs *FormStrategy) fieldValue(ctx *model.Context, valueObj types.Object) string {
	if s, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
		return s
	}

	obj, err := ctx.Dereference(valueObj)
	if err != nil || obj == nil {
		return ""
	}

	switch v := obj.(type) {
	case types.Name:
		return "/" + string(v)
	case types.Integer:
		return strconv.Itoa(int(v))
	case types.Float:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case types.Boolean:
		return strconv.FormatBool(bool(v))
	case types.Array:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := fs.fieldValue(ctx, item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
