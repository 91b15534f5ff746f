// Package metrics defines the Prometheus metrics of the service layer in a
// standalone package so the store packages can increment them without
// import cycles.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/taskhub/internal/domain/repository"
)

var (
	// RepoOperations counts repository operations by entity, operation
	// and outcome (ok, validation, not_found, conflict,
	// invalid_credentials, error).
	RepoOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "repo_operations_total",
		Help: "Repository operations by entity, op and outcome",
	}, []string{"entity", "op", "outcome"})
)

// RegisterRepo registers the repository metrics on the given registry
// (or the default one if nil).
func RegisterRepo(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(RepoOperations); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			return err
		}
	}
	return nil
}

// ObserveRepoOp increments the operation counter, deriving the outcome
// label from the returned error.
func ObserveRepoOp(entity, op string, err error) {
	RepoOperations.WithLabelValues(entity, op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case repository.IsValidation(err):
		return "validation"
	case repository.IsNotFound(err):
		return "not_found"
	case repository.IsConflict(err):
		return "conflict"
	case repository.IsInvalidCredentials(err):
		return "invalid_credentials"
	default:
		return "error"
	}
}
