package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// extractJSON strips markdown code fences and surrounding prose from a model
// reply, leaving the first JSON object or array.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	// Models occasionally wrap the payload in prose. Cut to the outermost
	// bracket pair when the reply does not start with one.
	if len(raw) > 0 && raw[0] != '{' && raw[0] != '[' {
		objStart := strings.Index(raw, "{")
		arrStart := strings.Index(raw, "[")
		start := objStart
		if start == -1 || (arrStart != -1 && arrStart < start) {
			start = arrStart
		}
		if start != -1 {
			end := strings.LastIndex(raw, closingBracket(raw[start]))
			if end > start {
				raw = raw[start : end+1]
			}
		}
	}
	return strings.TrimSpace(raw)
}

func closingBracket(open byte) string {
	if open == '[' {
		return "]"
	}
	return "}"
}

// decodeReply parses a model reply into out, tolerating the loose typing
// LLMs produce (numbers as strings, single values where lists are expected).
func decodeReply(raw string, out any) error {
	cleaned := extractJSON(raw)

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return fmt.Errorf("parse model reply: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build reply decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode model reply: %w", err)
	}
	return nil
}
