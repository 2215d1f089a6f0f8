package extract

import (
	"fmt"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// MergeNonNull folds extracted values into the current payload as a JSON
// merge patch, after dropping nulls and empty strings so an extraction pass
// can never regress a field the user already provided.
func MergeNonNull(current map[string]any, extracted map[string]any) (map[string]any, error) {
	patch := make(map[string]any, len(extracted))
	for k, v := range extracted {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		patch[k] = v
	}
	if len(patch) == 0 {
		if current == nil {
			return map[string]any{}, nil
		}
		return current, nil
	}

	if current == nil {
		current = map[string]any{}
	}
	currentJSON, err := sonic.Marshal(current)
	if err != nil {
		return current, fmt.Errorf("marshal current payload: %w", err)
	}
	patchJSON, err := sonic.Marshal(patch)
	if err != nil {
		return current, fmt.Errorf("marshal extracted payload: %w", err)
	}

	mergedJSON, err := jsonpatch.MergePatch(currentJSON, patchJSON)
	if err != nil {
		return current, fmt.Errorf("apply merge patch: %w", err)
	}

	var merged map[string]any
	if err := sonic.Unmarshal(mergedJSON, &merged); err != nil {
		return current, fmt.Errorf("unmarshal merged payload: %w", err)
	}
	return merged, nil
}
