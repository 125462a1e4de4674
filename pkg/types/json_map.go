package types

// JSONMap is an arbitrary JSON object persisted through GORM's json
// serializer.
type JSONMap map[string]any
