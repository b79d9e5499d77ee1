package dto

// RestoreResponse resultado de restaurar una entrada de la papelera.
type RestoreResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// EmptyBinResponse resultado de vaciar la papelera.
type EmptyBinResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}
