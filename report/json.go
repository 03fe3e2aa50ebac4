package report

import (
	"encoding/json"
	"io"

	"github.com/hannajonsd/structural-analysis/model"
)

func WriteJSON(w io.Writer, r *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
