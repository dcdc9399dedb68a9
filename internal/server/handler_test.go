package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/statewalk/evlog/internal/api"
	"github.com/statewalk/evlog/internal/server"
	"github.com/statewalk/evlog/internal/source"
)

const day18 = `{"timestamp":"2025-08-18T10:00:02","eventCategory":"STATE_CHANGE","machineId":"call-001","stateBefore":"IDLE","stateAfter":"RINGING"}
{"timestamp":"2025-08-18T10:00:01","eventCategory":"WEBSOCKET_IN","eventType":"INCOMING_CALL","machineId":"call-001","eventDetails":{"phoneNumber":"+1-555-1234"}}
{"timestamp":"2025-08-18T10:00:03","eventCategory":"TIMEOUT","machineId":"call-002","stateBefore":"RINGING","stateAfter":"IDLE","processingTimeMs":2}
{"timestamp":"2025-08-18T10:00:04","eventCategory":"WEBSOCKET_OUT","eventType":"STATE_CHANGE","machineId":"call-002"}
`

var _ = Describe("Handler", func() {
	var (
		router *gin.Engine
		dir    string
	)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		dir = GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "events-2025-08-18.jsonl"), []byte(day18), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "events-2025-08-17.jsonl"), []byte("{}\n{}\n{}\n"), 0o644)).To(Succeed())

		now := func() time.Time { return time.Date(2025, 8, 18, 15, 0, 0, 0, time.Local) }
		src := source.NewLocal(dir, 7)
		src.Now = now
		router = server.NewRouter(src, now)
	})

	It("reports health", func() {
		w := get("/health")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp api.HealthResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Status).To(Equal("ok"))
	})

	It("lists files oldest first", func() {
		w := get("/api/files")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp api.FilesResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Files).To(HaveLen(2))
		Expect(resp.Files[0].Name).To(Equal("events-2025-08-17.jsonl"))
		Expect(resp.Files[1].Name).To(Equal("events-2025-08-18.jsonl"))
	})

	It("returns a day's events in file order", func() {
		w := get("/api/events?date=2025-08-18")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp api.EventsResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Date).To(Equal("2025-08-18"))
		Expect(resp.Total).To(Equal(4))
		Expect(resp.Records[0].Category).To(Equal("STATE_CHANGE"))
	})

	It("defaults to today when date is omitted", func() {
		w := get("/api/events")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp api.EventsResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Date).To(Equal("2025-08-18"))
	})

	It("applies filter, where and last in order", func() {
		w := get("/api/events?date=2025-08-18&filter=STATE_CHANGE&last=1")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp api.EventsResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Total).To(Equal(1))
		Expect(resp.Records[0].Category).To(Equal("WEBSOCKET_OUT"))

		w = get("/api/events?date=2025-08-18&where=" + "machine%20%3D%3D%20%22call-002%22")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Total).To(Equal(2))
	})

	It("treats zero or negative last as the whole day", func() {
		for _, last := range []string{"0", "-1", "-25"} {
			w := get("/api/events?date=2025-08-18&last=" + last)
			Expect(w.Code).To(Equal(http.StatusOK), "last=%s", last)
			var resp api.EventsResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(4), "last=%s", last)
		}
	})

	It("returns an empty list rather than null when nothing matches", func() {
		w := get("/api/events?date=2025-08-18&filter=nothing")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"events":[]`))
	})

	It("returns 404 for a missing day", func() {
		w := get("/api/events?date=2025-01-01")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		var resp api.ErrorResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Error).To(ContainSubstring("events-2025-01-01.jsonl"))
	})

	DescribeTable("rejects bad query parameters with 400",
		func(path string) {
			Expect(get(path).Code).To(Equal(http.StatusBadRequest))
		},
		Entry("malformed date", "/api/events?date=18-08-2025"),
		Entry("non-numeric last", "/api/events?date=2025-08-18&last=abc"),
		Entry("invalid where", "/api/events?date=2025-08-18&where=machine%20%3D%3D"),
		Entry("malformed summary date", "/api/summary?date=yesterday"),
	)

	It("renders a sorted summary", func() {
		w := get("/api/summary?date=2025-08-18")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp api.SummaryResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Total).To(Equal(4))
		Expect(resp.Lines).To(HaveLen(4))
		Expect(resp.Lines[0]).To(HavePrefix("10:00:01 | call-001"))
		Expect(resp.Lines[0]).To(HaveSuffix("← Received INCOMING_CALL from +1-555-1234"))
		Expect(strings.Contains(resp.Lines[2], "Timeout fired: RINGING → IDLE")).To(BeTrue())
	})

	It("aggregates stats across files", func() {
		w := get("/api/stats")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp api.StatsResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Files).To(HaveLen(2))
		Expect(resp.TotalRecords).To(Equal(7))
		Expect(resp.RetentionDays).To(Equal(7))
	})
})
