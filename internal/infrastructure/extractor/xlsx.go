package extractor

import (
	"bytes"
	"context"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// xlsxStrategy renders every sheet as tab-separated rows so tabular
// documents survive as readable plain text.
type xlsxStrategy struct{}

func (xlsxStrategy) Extract(_ context.Context, content []byte) (string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "open xlsx workbook", err)
	}
	defer wb.Close()

	var b strings.Builder
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return "", domain.WrapError(domain.ErrExtractionFailed, "read xlsx sheet", err)
		}
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String()), nil
}
