package wire

import (
	"encoding/binary"

	"fenrir/internal/book"
	"fenrir/internal/types"
)

// ReportType identifies what kind of outbound report a frame carries.
type ReportType uint8

const (
	FillReport ReportType = iota
	ErrorReport
)

// fillReportBodyLen is MakerOrderID(8) + Price(4) + Quantity(4).
const fillReportBodyLen = 8 + 4 + 4

// errorReportFixedLen is ErrStrLen(4); the error text itself follows.
const errorReportFixedLen = 4

// SerializeFillReport encodes one Fill as a report frame.
func SerializeFillReport(fill book.Fill) []byte {
	buf := make([]byte, 1+fillReportBodyLen)
	buf[0] = byte(FillReport)
	binary.BigEndian.PutUint64(buf[1:9], uint64(fill.MakerOrderID))
	binary.BigEndian.PutUint32(buf[9:13], uint32(fill.Price))
	binary.BigEndian.PutUint32(buf[13:17], uint32(fill.Quantity))
	return buf
}

// SerializeErrorReport encodes an error message as a report frame.
func SerializeErrorReport(err error) []byte {
	msg := err.Error()
	buf := make([]byte, 1+errorReportFixedLen+len(msg))
	buf[0] = byte(ErrorReport)
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(msg)))
	copy(buf[5:], msg)
	return buf
}

// ParsedFillReport is the decoded counterpart of SerializeFillReport, used
// by test clients and the demo CLI to print what the server sent back.
type ParsedFillReport struct {
	MakerOrderID types.OrderId
	Price        types.Price
	Quantity     types.Quantity
}

// ParseReport decodes a report frame produced by SerializeFillReport or
// SerializeErrorReport.
func ParseReport(buf []byte) (ReportType, any, error) {
	if len(buf) < 1 {
		return 0, nil, ErrMessageTooShort
	}
	switch ReportType(buf[0]) {
	case FillReport:
		body := buf[1:]
		if len(body) < fillReportBodyLen {
			return 0, nil, ErrMessageTooShort
		}
		return FillReport, ParsedFillReport{
			MakerOrderID: types.OrderId(binary.BigEndian.Uint64(body[0:8])),
			Price:        types.Price(binary.BigEndian.Uint32(body[8:12])),
			Quantity:     types.Quantity(binary.BigEndian.Uint32(body[12:16])),
		}, nil
	case ErrorReport:
		body := buf[1:]
		if len(body) < errorReportFixedLen {
			return 0, nil, ErrMessageTooShort
		}
		n := binary.BigEndian.Uint32(body[0:4])
		if uint32(len(body)-errorReportFixedLen) < n {
			return 0, nil, ErrMessageTooShort
		}
		return ErrorReport, string(body[errorReportFixedLen : errorReportFixedLen+n]), nil
	default:
		return 0, nil, ErrInvalidMessageType
	}
}
