// Package drip holds the IV-drip status model and the pure functions that
// derive clinical state from weight-sensor telemetry. Nothing in this package
// touches storage or the wall clock; callers inject time explicitly.
package drip

// Status is the clinical state of an IV infusion on a bed.
type Status string

const (
	StatusNenhum      Status = "nenhum"
	StatusEmAndamento Status = "em-andamento"
	StatusAlerta      Status = "alerta"
	StatusPausado     Status = "pausado"
	StatusFinalizado  Status = "finalizado"
)

// severityRank orders statuses by how far along the infusion is. Pausado is a
// staff override outside the consumption ordering and ranks with em-andamento.
var severityRank = map[Status]int{
	StatusNenhum:      0,
	StatusEmAndamento: 1,
	StatusPausado:     1,
	StatusAlerta:      2,
	StatusFinalizado:  3,
}

// Valid reports whether s is one of the closed set of statuses.
func (s Status) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Severity returns the ordering rank of s. Unknown statuses rank lowest.
func (s Status) Severity() int {
	return severityRank[s]
}

// Active reports whether s represents an infusion that still holds the bed.
func (s Status) Active() bool {
	return s == StatusEmAndamento || s == StatusAlerta || s == StatusPausado
}
