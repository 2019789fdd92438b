package fixtures

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func jsonAttributes(attrs map[string]any) (datatypes.JSON, error) {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
