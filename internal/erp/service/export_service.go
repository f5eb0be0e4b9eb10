package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/export"
	"github.com/bitfantasy/bws/internal/shared/clock"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportService 磅单导出；配置了 MinIO 时归档生成的 PDF
type ExportService struct {
	minioClient *minio.Client
	bucketName  string
	company     string
	archive     bool
	activity    *ActivityService
	clock       clock.Clock
	logger      *zap.Logger
}

func NewExportService(minioClient *minio.Client, bucketName, company string, archive bool, activity *ActivityService, clk clock.Clock, logger *zap.Logger) *ExportService {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		minioClient: minioClient,
		bucketName:  bucketName,
		company:     company,
		archive:     archive,
		activity:    activity,
		clock:       clk,
		logger:      logger,
	}
}

// DocumentOf 磅单导出内容
func DocumentOf[T TicketEntity](t T) export.Document {
	switch v := any(t).(type) {
	case entity.SalesTicket:
		return export.SalesDocument(v)
	case entity.PurchaseTicket:
		return export.PurchaseDocument(v)
	}
	panic(fmt.Sprintf("unsupported ticket type %T", t))
}

// PDF 生成 PDF，按需归档到对象存储
func (s *ExportService) PDF(ctx context.Context, op Operator, doc export.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, doc, s.company); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	data := buf.Bytes()

	if s.archive && s.minioClient != nil {
		objectName := fmt.Sprintf("tickets/%s/%s/%s", doc.Kind, s.clock.Now().Format("2006/01/02"), doc.FileName("pdf"))
		_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "application/pdf",
		})
		if err != nil {
			s.logger.Warn("failed to archive ticket pdf", zap.String("object", objectName), zap.Error(err))
		}
	}

	s.activity.Record(ctx, op, entityTypeOf(doc.Kind), doc.TicketNo, entity.ActionExport, "exported "+doc.FileName("pdf"), nil)
	return data, nil
}

// CSV 单张磅单 CSV
func (s *ExportService) CSV(doc export.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, doc); err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Print 打印页 HTML
func (s *ExportService) Print(doc export.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := export.WritePrintHTML(&buf, doc, s.company); err != nil {
		return nil, fmt.Errorf("render print page: %w", err)
	}
	return buf.Bytes(), nil
}

// Mailto 邮件链接
func (s *ExportService) Mailto(doc export.Document) string {
	return export.MailtoLink(doc)
}

// Workbook 列表导出 Excel
func (s *ExportService) Workbook(kind entity.TicketKind, docs []export.Document) (*excelize.File, string, error) {
	title := "Sales_Tickets"
	if kind == entity.TicketKindPurchase {
		title = "Purchase_Tickets"
	}
	f, err := export.BuildWorkbook(title, docs)
	if err != nil {
		return nil, "", fmt.Errorf("build workbook: %w", err)
	}
	return f, export.WorkbookFileName(title, s.clock.Now()), nil
}

func entityTypeOf(kind entity.TicketKind) string {
	if kind == entity.TicketKindSales {
		return EntitySalesTicket
	}
	return EntityPurchaseTicket
}
