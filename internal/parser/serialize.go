package parser

import (
	"strconv"
	"strings"

	"github.com/avollmer/sceneslice/internal/models"
)

// Serialize renders a value tree back to compact JSON. Object member
// order and key casing come out exactly as parsed, so serialize→parse is
// idempotent on the value level.
func Serialize(v *models.Value) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v *models.Value) {
	if v == nil {
		sb.WriteString("null")
		return
	}
	switch v.Kind {
	case models.Null:
		sb.WriteString("null")
	case models.Bool:
		if v.Boolean {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case models.Number:
		sb.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
	case models.String:
		writeString(sb, v.Str)
	case models.Array:
		sb.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeValue(sb, item)
		}
		sb.WriteByte(']')
	case models.Object:
		sb.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeString(sb, m.Key)
			sb.WriteByte(':')
			writeValue(sb, m.Value)
		}
		sb.WriteByte('}')
	}
}

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u`)
				const hex = "0123456789abcdef"
				sb.WriteByte('0')
				sb.WriteByte('0')
				sb.WriteByte(hex[(r>>4)&0xf])
				sb.WriteByte(hex[r&0xf])
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}
