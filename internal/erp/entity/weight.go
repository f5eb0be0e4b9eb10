package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// WeightUnknown 未称重时的展示值
const WeightUnknown = "N/A"

// WeightScale 重量保留的小数位，与 decimal(12,2) 列一致
const WeightScale = 2

// Weight 公斤重量，未称重时为 unknown
type Weight struct {
	kg    decimal.Decimal
	known bool
}

// UnknownWeight 未知重量
func UnknownWeight() Weight { return Weight{} }

// Kilograms 已知重量，按列精度四舍五入，净重在入库前即与列值一致
func Kilograms(kg decimal.Decimal) Weight { return Weight{kg: kg.Round(WeightScale), known: true} }

// KilogramsInt 整数公斤
func KilogramsInt(kg int64) Weight { return Kilograms(decimal.NewFromInt(kg)) }

// ParseWeight 解析表单输入：N/A、unknown 或空串表示未知
func ParseWeight(s string) (Weight, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "n/a", "unknown":
		return UnknownWeight(), nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return Weight{}, fmt.Errorf("invalid weight %q", s)
	}
	return Kilograms(d), nil
}

func (w Weight) Known() bool { return w.known }

// Kg 返回公斤数；未知时 ok 为 false
func (w Weight) Kg() (kg decimal.Decimal, ok bool) {
	return w.kg, w.known
}

func (w Weight) Equal(o Weight) bool {
	if w.known != o.known {
		return false
	}
	return !w.known || w.kg.Equal(o.kg)
}

func (w Weight) String() string {
	if !w.known {
		return WeightUnknown
	}
	return w.kg.String()
}

func (w Weight) MarshalJSON() ([]byte, error) {
	if !w.known {
		return []byte(`"` + WeightUnknown + `"`), nil
	}
	return []byte(w.kg.String()), nil
}

func (w *Weight) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*w = UnknownWeight()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseWeight(s)
		if err != nil {
			return err
		}
		*w = parsed
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid weight %s", data)
	}
	*w = Kilograms(d)
	return nil
}

// Value 未知重量存为 NULL
func (w Weight) Value() (driver.Value, error) {
	if !w.known {
		return nil, nil
	}
	return w.kg.String(), nil
}

func (w *Weight) Scan(value interface{}) error {
	var nd decimal.NullDecimal
	if err := nd.Scan(value); err != nil {
		return fmt.Errorf("failed to scan Weight: %w", err)
	}
	if !nd.Valid {
		*w = UnknownWeight()
		return nil
	}
	*w = Kilograms(nd.Decimal)
	return nil
}
