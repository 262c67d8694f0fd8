package instance

import "os"

// GetID identifies this worker process in logs. Deployments set
// MERCADITO_INSTANCE_ID per replica; local runs fall back to a fixed name.
func GetID() string {
	id := os.Getenv("MERCADITO_INSTANCE_ID")
	if id == "" {
		return "worker-0"
	}
	return id
}
