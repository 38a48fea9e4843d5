package logger

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/teranos/SIMYX/sym"
)

// Muted color palette for console output (warm, easy on eyes).
const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"

	colorFg     = "\x1b[38;5;223m" // soft cream
	colorAqua   = "\x1b[38;5;108m" // muted cyan-green: timestamps
	colorOrange = "\x1b[38;5;208m" // warm orange: component names
	colorYellow = "\x1b[38;5;214m" // soft yellow: warnings
	colorGreen  = "\x1b[38;5;142m" // muted green: symbols, numbers
	colorBlue   = "\x1b[38;5;109m" // soft blue: ids
	colorRed    = "\x1b[38;5;167m" // warm red: errors
	colorRedBg  = "\x1b[48;5;88m"
	colorWarnBg = "\x1b[48;5;58m"
)

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  e.runner  ▶ Replication finished  rep 3 (t=120.00, 412 plans) 38ms"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	buf             *buffer.Buffer
}

func newMinimalEncoder() *minimalEncoder {
	// Create a base JSON encoder for field serialization (internal use only)
	baseEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return &minimalEncoder{
		Encoder: baseEncoder,
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()

	// Time
	final.AppendString(colorAqua)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for WARN/ERROR with bold + background
	if ent.Level != zapcore.InfoLevel && ent.Level != zapcore.DebugLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	// Component name (abbreviated) for visual grouping
	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorOrange)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	// Subsystem symbol, pulled out of the fields so it leads the message
	symbol, rest := splitSymbolField(fields)
	final.AppendString("  ")
	if symbol != "" {
		final.AppendString(colorGreen)
		final.AppendString(symbol)
		final.AppendString(colorReset)
		final.AppendString(" ")
	}

	// Message
	final.AppendString(colorFg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	// Fields: extract and color selected values
	if len(rest) > 0 {
		if vals := extractFieldValues(rest); vals != "" {
			final.AppendString("  ")
			final.AppendString(vals)
		}
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + colorWarnBg + colorYellow + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + colorRedBg + colorRed + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + colorRedBg + colorRed + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens component names: exp.runner -> e.runner
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// splitSymbolField removes the symbol field from the field list, returning
// the glyph (if any) and the remaining fields.
func splitSymbolField(fields []zapcore.Field) (string, []zapcore.Field) {
	for i, field := range fields {
		if field.Key != FieldSymbol {
			continue
		}
		glyph := getFieldValue(field)
		if sym.Name(glyph) == "" {
			glyph = ""
		}
		rest := make([]zapcore.Field, 0, len(fields)-1)
		rest = append(rest, fields[:i]...)
		rest = append(rest, fields[i+1:]...)
		return glyph, rest
	}
	return "", fields
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	if field.Type == zapcore.StringType {
		return field.String
	}

	switch field.Type {
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.Float64Type:
		// zap packs float bits into the Integer slot
		return strconv.FormatFloat(math.Float64frombits(uint64(field.Integer)), 'f', 2, 64)
	case zapcore.Float32Type:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(field.Integer))), 'f', 2, 32)
	}

	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}

	return ""
}

// extractFieldValues pulls just the values from structured fields.
// Input: {"run_id": "r7Kp2", "replication": 3, "duration_ms": 38}
// Output: "r7Kp2 rep 3 38ms" (with colored IDs and numbers)
func extractFieldValues(fields []zapcore.Field) string {
	var values []string
	var simTime, planCount string

	for _, field := range fields {
		switch field.Key {
		case FieldRunID:
			if val := getFieldValue(field); val != "" {
				values = append(values, colorBlue+val+colorReset)
			}
		case FieldReplication:
			if val := getFieldValue(field); val != "" {
				values = append(values, colorFg+"rep "+colorGreen+val+colorReset)
			}
		case FieldSimTime:
			simTime = getFieldValue(field)
		case FieldPlans:
			planCount = getFieldValue(field)
		case FieldPopulation:
			if val := getFieldValue(field); val != "" {
				values = append(values, colorGreen+val+colorReset+colorFg+" entities"+colorReset)
			}
		case FieldCount:
			if val := getFieldValue(field); val != "" {
				values = append(values, colorGreen+val+colorReset)
			}
		case FieldDurationMS:
			if val := getFieldValue(field); val != "" {
				values = append(values, colorGreen+val+colorReset+colorFg+"ms"+colorReset)
			}
		}
	}

	// Special formatting for clock + plan stats
	if simTime != "" && planCount != "" {
		values = append(values, colorFg+"(t="+colorGreen+simTime+colorReset+colorFg+", "+colorGreen+planCount+colorReset+colorFg+" plans)"+colorReset)
	} else if simTime != "" {
		values = append(values, colorFg+"(t="+colorGreen+simTime+colorReset+colorFg+")"+colorReset)
	}

	if len(values) == 0 {
		return ""
	}

	return strings.Join(values, " ")
}
