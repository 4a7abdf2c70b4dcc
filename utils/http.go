package utils

import (
	"net/http"
	"time"
)

// HTTPClient is the shared client for outbound REST calls.
var HTTPClient = &http.Client{
	Timeout: 15 * time.Second,
}
