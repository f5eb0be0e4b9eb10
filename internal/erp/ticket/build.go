package ticket

import (
	"slices"
	"strings"
	"time"

	"github.com/bitfantasy/bws/internal/erp/entity"
)

// DateLayout 磅单日期格式
const DateLayout = "2006-01-02"

// Mode 编辑器模式
type Mode int

const (
	Create Mode = iota
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "create"
}

// IDSet 某一类磅单已有的编号
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Add(id string) { s[id] = struct{}{} }

// ValidateNewID 新编号唯一性校验
func ValidateNewID(candidate string, existing IDSet) error {
	if existing.Contains(candidate) {
		return &DuplicateIDError{ID: candidate}
	}
	return nil
}

// BuildSalesTicket 草稿转销售磅单；净重总是由毛重与皮重重新计算
func BuildSalesTicket(d Draft, mode Mode, existing IDSet) (entity.SalesTicket, error) {
	core, err := buildCore(d, mode, existing)
	if err != nil {
		return entity.SalesTicket{}, err
	}
	err = checkRequired(
		field{"date", d.Date},
		field{"customer_name", d.CustomerName},
		field{"truck_no", d.TruckNo},
		field{"material_destination", d.MaterialDestination},
		field{"material_code", d.MaterialCode},
		field{"destination", d.Destination},
	)
	if err != nil {
		return entity.SalesTicket{}, err
	}
	if err := checkDate(core.Date); err != nil {
		return entity.SalesTicket{}, err
	}
	return entity.SalesTicket{
		TicketCore:          core,
		LPONo:               strings.TrimSpace(str(d.LPONo)),
		MaterialDestination: strings.TrimSpace(str(d.MaterialDestination)),
		SourceID:            strings.TrimSpace(str(d.SourceID)),
	}, nil
}

// BuildPurchaseTicket 草稿转采购磅单
func BuildPurchaseTicket(d Draft, mode Mode, existing IDSet) (entity.PurchaseTicket, error) {
	core, err := buildCore(d, mode, existing)
	if err != nil {
		return entity.PurchaseTicket{}, err
	}
	err = checkRequired(
		field{"serial_no", d.SerialNo},
		field{"date", d.Date},
		field{"customer_name", d.CustomerName},
		field{"destination", d.Destination},
		field{"material_code", d.MaterialCode},
		field{"status", d.Status},
		field{"truck_no", d.TruckNo},
		field{"origin", d.Origin},
	)
	if err != nil {
		return entity.PurchaseTicket{}, err
	}
	if err := checkDate(core.Date); err != nil {
		return entity.PurchaseTicket{}, err
	}
	status := strings.TrimSpace(str(d.Status))
	if !slices.Contains(entity.PurchaseStatuses, status) {
		return entity.PurchaseTicket{}, &ValidationError{Field: "status", Reason: ErrInvalidStatus}
	}
	return entity.PurchaseTicket{
		TicketCore: core,
		SerialNo:   strings.TrimSpace(str(d.SerialNo)),
		Origin:     strings.TrimSpace(str(d.Origin)),
		PONo:       strings.TrimSpace(str(d.PONo)),
		Status:     status,
	}, nil
}

func buildCore(d Draft, mode Mode, existing IDSet) (entity.TicketCore, error) {
	id := strings.TrimSpace(str(d.ID))
	if mode == Create {
		if id == "" {
			return entity.TicketCore{}, &ValidationError{Field: "id", Reason: ErrMissingID}
		}
		if err := ValidateNewID(id, existing); err != nil {
			return entity.TicketCore{}, &ValidationError{Field: "id", Reason: err}
		}
	}

	gross, tare := weight(d.GrossWeight), weight(d.TareWeight)
	core := entity.TicketCore{
		ID:           id,
		Date:         strings.TrimSpace(str(d.Date)),
		CustomerName: strings.TrimSpace(str(d.CustomerName)),
		TruckNo:      strings.TrimSpace(str(d.TruckNo)),
		Transporter:  strings.TrimSpace(str(d.Transporter)),
		MaterialCode: strings.TrimSpace(str(d.MaterialCode)),
		TimeIn:       str(d.TimeIn),
		TimeOut:      str(d.TimeOut),
		DriverName:   strings.TrimSpace(str(d.DriverName)),
		Destination:  strings.TrimSpace(str(d.Destination)),
		OperatorName: strings.TrimSpace(str(d.OperatorName)),
		GrossWeight:  gross,
		TareWeight:   tare,
		NetWeight:    ComputeNetWeight(gross, tare),
		Notes:        str(d.Notes),
	}
	if d.Temperature != nil {
		temp := *d.Temperature
		core.Temperature = &temp
	}
	return core, nil
}

type field struct {
	name  string
	value *string
}

func checkRequired(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(str(f.value)) == "" {
			return &ValidationError{Field: f.name, Reason: ErrRequiredField}
		}
	}
	return nil
}

func checkDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return &ValidationError{Field: "date", Reason: ErrInvalidDate}
	}
	return nil
}
