package hostkit

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPDevice adapts a fieldkitd report harness to the Device contract, so
// the same client code drives emulated keyboards over HTTP.
type HTTPDevice struct {
	BaseURL string
	Client  *http.Client

	pending [][]byte
}

func NewHTTPDevice(baseURL string) *HTTPDevice {
	return &HTTPDevice{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type harnessResponse struct {
	Responses []struct {
		Packet string `json:"packet"`
	} `json:"responses"`
}

// Write posts one report to the harness and queues any response packets
// for subsequent reads.
func (d *HTTPDevice) Write(p []byte) (int, error) {
	body, err := json.Marshal(map[string]string{"report": hex.EncodeToString(p)})
	if err != nil {
		return 0, err
	}
	resp, err := d.Client.Post(d.BaseURL+"/report", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: harness returned %s", ErrDeviceUnavailable, resp.Status)
	}

	var out harnessResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	for _, r := range out.Responses {
		packet, err := hex.DecodeString(r.Packet)
		if err != nil {
			continue
		}
		d.pending = append(d.pending, packet)
	}
	return len(p), nil
}

// ReadTimeout pops the next queued response packet. The harness answers
// synchronously inside Write, so an empty queue just honors the timeout.
func (d *HTTPDevice) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	if len(d.pending) == 0 {
		time.Sleep(timeout)
		return 0, nil
	}
	packet := d.pending[0]
	d.pending = d.pending[1:]
	return copy(p, packet), nil
}

func (d *HTTPDevice) Close() error {
	d.pending = nil
	return nil
}
