// Package export renders a stored operation as an Excel workbook.
package export

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"copilot-ops/internal/operation"
	"copilot-ops/internal/storage"
)

const (
	actionsSheet = "动作"
	opersSheet   = "干员"
)

var (
	actionHeaders = []string{"序号", "类型", "干员", "坐标", "朝向", "击杀数", "费用", "费用变化", "冷却中", "技能用法", "技能次数", "前置延时", "后置延时", "镜头偏移", "描述"}
	operHeaders   = []string{"干员组", "干员", "技能", "技能用法", "技能次数", "精英化", "等级", "技能等级", "模组", "潜能"}
)

type ExportStorage interface {
	GetOperation(ctx context.Context, id int64) (*storage.StoredOperation, error)
}

type ExportService struct {
	storage ExportStorage
}

func NewExportService(storage ExportStorage) *ExportService {
	return &ExportService{storage: storage}
}

// Export loads operation id and returns the workbook bytes with a file name.
func (e *ExportService) Export(ctx context.Context, id int64) ([]byte, string, error) {
	const op = "service.export.Export"

	stored, err := e.storage.GetOperation(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	doc, err := operation.ParseCanonical([]byte(stored.Content))
	if err != nil {
		return nil, "", fmt.Errorf("%s: decode content: %w", op, err)
	}

	data, err := Workbook(doc)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return data, fileName(stored), nil
}

// Workbook writes the action sequence and the operator roster of doc.
func Workbook(doc *operation.Operation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", actionsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(opersSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, err
	}

	actionRows := make([][]any, len(doc.Actions))
	for i, a := range doc.Actions {
		actionRows[i] = []any{
			i + 1, a.Type, a.Name, point(a.Location), a.Direction,
			intOrEmpty(a.Kills), intOrEmpty(a.Costs), intOrEmpty(a.CostChanges), intOrEmpty(a.Cooling),
			intOrEmpty(a.SkillUsage), intOrEmpty(a.SkillTimes), intOrEmpty(a.PreDelay), intOrEmpty(a.RearDelay),
			distance(a.Distance), a.Doc,
		}
	}

	var operRows [][]any
	for _, o := range doc.Opers {
		operRows = append(operRows, operRow("", o))
	}
	for _, g := range doc.Groups {
		for _, o := range g.Opers {
			operRows = append(operRows, operRow(g.Name, o))
		}
	}

	if err := writeSheet(f, actionsSheet, actionHeaders, actionRows, headerStyle); err != nil {
		return nil, err
	}
	if err := writeSheet(f, opersSheet, operHeaders, operRows, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, style int) error {
	for i, name := range headers {
		if err := f.SetCellValue(sheet, cellName(i+1, 1), name); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style); err != nil {
		return err
	}

	for r, row := range rows {
		for c, v := range row {
			if err := f.SetCellValue(sheet, cellName(c+1, r+2), v); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "A", lastCol, 12)
}

func operRow(group string, o operation.Operator) []any {
	row := []any{group, o.Name, intOrEmpty(o.Skill), intOrEmpty(o.SkillUsage), intOrEmpty(o.SkillTimes)}

	r := o.Requirements
	if r == nil {
		r = &operation.Requirements{}
	}
	return append(row,
		intOrEmpty(r.Elite), intOrEmpty(r.Level), intOrEmpty(r.SkillLevel),
		intOrEmpty(r.Module), intOrEmpty(r.Potentiality))
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func intOrEmpty(p *int) any {
	if p == nil {
		return ""
	}
	return *p
}

func point(p []int) string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func distance(d []float64) string {
	if len(d) == 0 {
		return ""
	}
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func fileName(stored *storage.StoredOperation) string {
	name := stored.StageName
	if name == "" {
		name = "operation"
	}
	return fmt.Sprintf("%s-%d.xlsx", name, stored.ID)
}
