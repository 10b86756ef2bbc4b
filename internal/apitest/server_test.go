package apitest

import (
	"bufio"
	"context"
	"net/http"
	"testing"
	"time"
)

func TestStreamClosedSignalIsIdempotent(t *testing.T) {
	server := NewServer("lip_stub_token")
	defer server.Close()

	server.signalStreamClosed()
	server.signalStreamClosed() // second disconnect must not panic
	server.WaitStreamClosed(t, time.Second)
}

func TestEventStreamSurvivesRepeatedConnections(t *testing.T) {
	server := NewServer("lip_stub_token")
	defer server.Close()
	server.SetStreamFrames([]string{`{"type":"gameStart"}`})

	for connection := 0; connection < 2; connection++ {
		ctx, cancel := context.WithCancel(context.Background())
		request, buildError := http.NewRequestWithContext(ctx, http.MethodGet, server.URL()+"/api/stream/event", nil)
		if buildError != nil {
			cancel()
			t.Fatalf("connection %d: build request error: %v", connection, buildError)
		}
		request.Header.Set("Authorization", "Bearer lip_stub_token")

		response, sendError := http.DefaultClient.Do(request)
		if sendError != nil {
			cancel()
			t.Fatalf("connection %d: request error: %v", connection, sendError)
		}
		if response.StatusCode != http.StatusOK {
			cancel()
			t.Fatalf("connection %d: unexpected status %d", connection, response.StatusCode)
		}

		// Read up to the queued frame, then disconnect mid-stream.
		reader := bufio.NewReader(response.Body)
		sawFrame := false
		for !sawFrame {
			line, readError := reader.ReadString('\n')
			if readError != nil {
				cancel()
				t.Fatalf("connection %d: read error before frame: %v", connection, readError)
			}
			sawFrame = line != "\n"
		}

		cancel()
		response.Body.Close()
	}

	server.WaitStreamClosed(t, 2*time.Second)
}
