package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// attributeIDs decodes a JSON array of attribute ids given either as numbers
// or as numeric strings.
type attributeIDs []int64

func (ids *attributeIDs) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "attribute ids must be an array")
	}
	out := make([]int64, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		var text string
		if len(item) > 0 && item[0] == '"' {
			if err := json.Unmarshal(item, &text); err != nil {
				return err
			}
		} else {
			text = string(item)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return errors.Errorf("invalid attribute id %s", item)
		}
		out = append(out, id)
	}
	*ids = out
	return nil
}

// parseIDList parses a comma separated list such as "1,7". Empty elements are
// ignored.
func parseIDList(value string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.Errorf("invalid attribute id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
