package logger

import "go.uber.org/zap"

// Standard fields used across the service layer. Credential material
// (passwords, hashes) never gets a field helper on purpose.

// UserID creates a field for the acting or target user id.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// ProjectID creates a field for a project id.
func ProjectID(v string) zap.Field {
	return zap.String("project_id", v)
}

// TaskID creates a field for a task id.
func TaskID(v string) zap.Field {
	return zap.String("task_id", v)
}

// Email creates a field for an email address. Log at debug only.
func Email(v string) zap.Field {
	return zap.String("email", v)
}

// Component creates a field for the component/module name.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op creates a field for the current operation.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer creates a field for the layer (store, cli).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err creates a field for an error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Count creates a field for a result count.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// ID creates a generic id field.
func ID(v string) zap.Field {
	return zap.String("id", v)
}

// String creates a generic string field.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}
