package dto

// DirectionBucketsDTO conteos por estado de un lado (saliente o entrante).
type DirectionBucketsDTO struct {
	ByStatus map[string]int64 `json:"by_status"`
	Total    int64            `json:"total"`
}

// MovementStatsDTO agregado de movimientos para tableros.
type MovementStatsDTO struct {
	Outgoing DirectionBucketsDTO `json:"outgoing"`
	Incoming DirectionBucketsDTO `json:"incoming"`
}
