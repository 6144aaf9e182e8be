package app

import (
	"net/http"
	"reflect"
	"testing"
	"time"
)

func TestNewHighThroughputHTTPClient_Config(t *testing.T) {
	c := newHighThroughputHTTPClient(0, true)
	if c.Timeout != 60*time.Second {
		t.Fatalf("expected default timeout, got %v", c.Timeout)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected http.Transport")
	}
	if tr.MaxIdleConnsPerHost < 100 {
		t.Fatalf("expected large MaxIdleConnsPerHost, got %d", tr.MaxIdleConnsPerHost)
	}
	// Ensure we didn't return the default client's transport
	if reflect.ValueOf(http.DefaultTransport).Pointer() == reflect.ValueOf(tr).Pointer() {
		t.Fatalf("transport should not be default")
	}
	if tr.TLSClientConfig != nil && tr.TLSClientConfig.InsecureSkipVerify {
		t.Fatalf("expected SSL verification to be enabled")
	}
}

func TestNewHighThroughputHTTPClient_SSLVerifyDisabled(t *testing.T) {
	c := newHighThroughputHTTPClient(5*time.Second, false)
	if c.Timeout != 5*time.Second {
		t.Fatalf("expected configured timeout, got %v", c.Timeout)
	}
	tr := c.Transport.(*http.Transport)
	if tr.TLSClientConfig == nil || !tr.TLSClientConfig.InsecureSkipVerify {
		t.Fatalf("expected InsecureSkipVerify when SSL verification is disabled")
	}
}
