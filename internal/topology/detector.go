package topology

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/nethalo/oscmig/internal/mysql"
)

// Type represents the detected MySQL topology.
type Type string

const (
	Standalone      Type = "standalone"
	AsyncReplica    Type = "async-replica"
	SemiSyncReplica Type = "semisync-replica"
	Galera          Type = "galera"
	GroupRepl       Type = "group-replication"
)

// MaxReplicaLag is the lag, in seconds, above which a copy is flagged.
const MaxReplicaLag = 30

// Info holds what pt-online-schema-change cares about in a topology.
type Info struct {
	Type Type

	// Replication (async/semisync)
	IsReplica      bool
	IsPrimary      bool // has replicas attached
	ReplicaLagSecs *int64

	// Galera / PXC
	GaleraClusterSize int
	GaleraNodeState   string // Synced, Donor, Desynced, etc.
	GaleraOSUMethod   string // TOI or RSU
	FlowControlPaused float64

	// Group Replication
	GRMode string // SINGLE-PRIMARY or MULTI-PRIMARY

	ReadOnly      bool
	SuperReadOnly bool
}

// Detect determines the topology of the server behind db. Probes that fail
// for lack of privileges are treated as "not detected".
func Detect(ctx context.Context, db *sql.DB) (*Info, error) {
	info := &Info{}

	ro, err := mysql.GetVariable(ctx, db, "read_only")
	if err != nil {
		return nil, err
	}
	info.ReadOnly = ro == "ON"
	sro, _ := mysql.GetVariable(ctx, db, "super_read_only")
	info.SuperReadOnly = sro == "ON"

	// Galera is the most specific, check it first
	if detectGalera(ctx, db, info) {
		return info, nil
	}
	if detectGroupReplication(ctx, db, info) {
		return info, nil
	}
	if detectReplication(ctx, db, info) {
		return info, nil
	}

	info.Type = Standalone
	return info, nil
}

func detectGalera(ctx context.Context, db *sql.DB, info *Info) bool {
	size, err := mysql.GetVariableInt(ctx, db, "wsrep_cluster_size")
	if err != nil || size == 0 {
		return false
	}

	info.Type = Galera
	info.GaleraClusterSize = int(size)
	info.GaleraNodeState, _ = mysql.GetStatus(ctx, db, "wsrep_local_state_comment")
	info.GaleraOSUMethod, _ = mysql.GetVariable(ctx, db, "wsrep_OSU_method")

	if fc, _ := mysql.GetStatus(ctx, db, "wsrep_flow_control_paused"); fc != "" {
		info.FlowControlPaused, _ = strconv.ParseFloat(fc, 64)
	}
	return true
}

func detectGroupReplication(ctx context.Context, db *sql.DB, info *Info) bool {
	name, err := mysql.GetVariable(ctx, db, "group_replication_group_name")
	if err != nil || name == "" {
		return false
	}

	info.Type = GroupRepl
	singlePrimary, _ := mysql.GetVariable(ctx, db, "group_replication_single_primary_mode")
	if singlePrimary == "ON" {
		info.GRMode = "SINGLE-PRIMARY"
	} else {
		info.GRMode = "MULTI-PRIMARY"
	}
	return true
}

func detectReplication(ctx context.Context, db *sql.DB, info *Info) bool {
	detected := false

	rows, err := db.QueryContext(ctx, "SHOW REPLICA STATUS")
	if err != nil {
		// MySQL before 8.0.22
		rows, err = db.QueryContext(ctx, "SHOW SLAVE STATUS")
	}
	if err == nil {
		defer rows.Close()
		if rows.Next() {
			info.IsReplica = true
			detected = true
			info.ReplicaLagSecs = scanLag(rows)
		}
	}

	var replicas int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM information_schema.PROCESSLIST WHERE COMMAND IN ('Binlog Dump', 'Binlog Dump GTID')").Scan(&replicas)
	if err == nil && replicas > 0 {
		info.IsPrimary = true
		detected = true
	}

	if !detected {
		return false
	}
	semiSync, _ := mysql.GetVariable(ctx, db, "rpl_semi_sync_source_enabled")
	if semiSync == "" {
		semiSync, _ = mysql.GetVariable(ctx, db, "rpl_semi_sync_master_enabled")
	}
	if semiSync == "ON" {
		info.Type = SemiSyncReplica
	} else {
		info.Type = AsyncReplica
	}
	return true
}

// scanLag reads Seconds_Behind_Source (or _Master) from the current row.
func scanLag(rows *sql.Rows) *int64 {
	cols, err := rows.Columns()
	if err != nil {
		return nil
	}
	values := make([]sql.NullString, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil
	}
	for i, col := range cols {
		if (col == "Seconds_Behind_Source" || col == "Seconds_Behind_Master") && values[i].Valid {
			if lag, err := strconv.ParseInt(values[i].String, 10, 64); err == nil {
				return &lag
			}
		}
	}
	return nil
}

// Warnings lists conditions that affect a pt-online-schema-change run
// against this server.
func (i *Info) Warnings() []string {
	var w []string
	if i.ReadOnly || i.SuperReadOnly {
		w = append(w, "server is read-only: pt-online-schema-change must run against the primary")
	}

	switch i.Type {
	case Galera:
		if i.GaleraOSUMethod != "" && i.GaleraOSUMethod != "TOI" {
			w = append(w, fmt.Sprintf("wsrep_OSU_method is %s: pt-online-schema-change requires TOI on Galera", i.GaleraOSUMethod))
		}
		if i.GaleraNodeState != "" && i.GaleraNodeState != "Synced" {
			w = append(w, fmt.Sprintf("Galera node state is %s, not Synced", i.GaleraNodeState))
		}
		if i.FlowControlPaused > 0.01 {
			w = append(w, fmt.Sprintf("flow control paused at %.2f%%: consider --max-flow-ctl in percona options", i.FlowControlPaused*100))
		}
	case GroupRepl:
		if i.GRMode == "MULTI-PRIMARY" {
			w = append(w, "multi-primary Group Replication: make sure no other primary runs DDL on the same tables")
		}
	case AsyncReplica, SemiSyncReplica:
		if i.IsReplica && !i.ReadOnly {
			w = append(w, "connected to a writable replica: changes will not reach the primary")
		}
		if i.ReplicaLagSecs != nil && *i.ReplicaLagSecs > MaxReplicaLag {
			w = append(w, fmt.Sprintf("replication lag is %ds: the table copy will increase it further", *i.ReplicaLagSecs))
		}
	}
	return w
}
