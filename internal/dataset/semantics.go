package dataset

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/taxiflow/internal/model"
)

// LoadSemantics reads a cluster semantics document, a JSON object keyed by
// cluster id rendered as a string. Entries whose key does not parse as an
// integer are dropped with a warning rather than failing the load.
func LoadSemantics(path string) (map[int]model.ClusterSemantics, error) {
	f, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read semantics")
	}

	var doc map[string]model.ClusterSemantics
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrap(err, "dataset: decode semantics")
	}

	out := make(map[int]model.ClusterSemantics, len(doc))
	var bad int
	for key, entry := range doc {
		cid, err := strconv.Atoi(key)
		if err != nil {
			bad++
			continue
		}
		entry.ClusterID = cid
		out[cid] = entry
	}
	if bad > 0 {
		zap.L().Warn("dataset: dropped semantics entries with non-numeric keys",
			zap.String("path", path),
			zap.Int("entries", bad),
		)
	}
	return out, nil
}
