package service

import (
	"strconv"

	"journal/internal/rbac/model"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters exported by the service layer. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	permissionChecks *prometheus.CounterVec
	roleAssignments  *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	auditFailures    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		permissionChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "permission_checks_total",
			Help:      "Permission decisions made by the resolver.",
		}, []string{"permission", "allowed"}),
		roleAssignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "role_assignments_total",
			Help:      "Role assignment records written.",
		}, []string{"role"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "permission_cache_lookups_total",
			Help:      "User role cache lookups.",
		}, []string{"result"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "audit_write_failures_total",
			Help:      "Audit log entries that could not be written.",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.permissionChecks, m.roleAssignments, m.cacheLookups, m.auditFailures} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) RecordPermissionCheck(permission model.Permission, allowed bool) {
	if m == nil {
		return
	}
	// keep label cardinality bounded
	label := permission.String()
	if !permission.Valid() {
		label = "other"
	}
	m.permissionChecks.WithLabelValues(label, strconv.FormatBool(allowed)).Inc()
}

func (m *Metrics) RecordRoleAssignment(roleID string) {
	if m == nil {
		return
	}
	m.roleAssignments.WithLabelValues(roleID).Inc()
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordAuditFailure() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}
