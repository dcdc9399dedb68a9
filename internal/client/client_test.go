package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/statewalk/evlog/internal/api"
	"github.com/statewalk/evlog/internal/client"
	"github.com/statewalk/evlog/internal/eventstore"
	"github.com/statewalk/evlog/internal/server"
	"github.com/statewalk/evlog/internal/source"
)

var _ = Describe("Client against a live server", func() {
	var (
		ts  *httptest.Server
		c   *client.Client
		ctx context.Context
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		dir := GinkgoT().TempDir()
		body := "{\"eventCategory\":\"REGISTRY_CREATE\",\"machineId\":\"m1\"}\n" +
			"{\"eventCategory\":\"TIMEOUT\",\"machineId\":\"m2\"}\n" +
			"{\"eventCategory\":\"REGISTRY_REMOVE\",\"machineId\":\"m1\"}\n"
		Expect(os.WriteFile(filepath.Join(dir, "events-2025-08-18.jsonl"), []byte(body), 0o644)).To(Succeed())

		now := func() time.Time { return time.Date(2025, 8, 18, 12, 0, 0, 0, time.Local) }
		src := source.NewLocal(dir, 5)
		src.Now = now
		ts = httptest.NewServer(server.NewRouter(src, now))
		DeferCleanup(ts.Close)

		var err error
		c, err = client.NewClient(ts.URL)
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	It("reads a whole day through the source interface", func() {
		var src source.Source = c
		day, err := src.Events(ctx, "2025-08-18")
		Expect(err).NotTo(HaveOccurred())
		Expect(day.Records).To(HaveLen(3))
		Expect(day.Records[2].Category).To(Equal("REGISTRY_REMOVE"))
	})

	It("pushes filters to the server", func() {
		resp, err := c.FetchEvents(ctx, client.EventsQuery{Date: "2025-08-18", Filter: "m1", Last: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Total).To(Equal(1))
		Expect(resp.Records[0].Category).To(Equal("REGISTRY_REMOVE"))
	})

	It("maps 404 to ErrNotFound", func() {
		_, err := c.Events(ctx, "2025-01-01")
		Expect(errors.Is(err, eventstore.ErrNotFound)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("returned status 404"))
	})

	It("maps 400 to ErrInvalidArgument", func() {
		_, err := c.FetchEvents(ctx, client.EventsQuery{Date: "2025-08-18", Where: "machine =="})
		Expect(errors.Is(err, eventstore.ErrInvalidArgument)).To(BeTrue())
	})

	It("fetches files, stats, summary and health", func() {
		files, err := c.Files(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(HaveLen(1))

		rep, err := c.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.TotalRecords).To(Equal(3))
		Expect(rep.RetentionDays).To(Equal(5))

		sum, err := c.FetchSummary(ctx, "2025-08-18")
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Lines).To(HaveLen(3))

		health, err := c.FetchHealth(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(health.Status).To(Equal("ok"))
	})
})

var _ = Describe("Client request encoding", func() {
	It("encodes every query parameter and sets a user agent", func() {
		var (
			gotQuery url.Values
			gotAgent string
		)
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			gotAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(api.EventsResponse{Total: 0})
		}))
		DeferCleanup(ts.Close)

		c, err := client.NewClient(ts.URL)
		Expect(err).NotTo(HaveOccurred())
		_, err = c.FetchEvents(context.Background(), client.EventsQuery{
			Date:   "2025-08-18",
			Filter: "call-001",
			Where:  "success",
			Last:   5,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(gotQuery.Get("date")).To(Equal("2025-08-18"))
		Expect(gotQuery.Get("filter")).To(Equal("call-001"))
		Expect(gotQuery.Get("where")).To(Equal("success"))
		Expect(gotQuery.Get("last")).To(Equal("5"))
		Expect(gotAgent).To(HavePrefix("evlog/"))
	})

	It("reports undecodable bodies and server errors", func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/stats":
				_, _ = w.Write([]byte("{not-json"))
			default:
				http.Error(w, "nope", http.StatusInternalServerError)
			}
		}))
		DeferCleanup(ts.Close)

		c, err := client.NewClient(ts.URL)
		Expect(err).NotTo(HaveOccurred())

		_, err = c.Stats(context.Background())
		Expect(err).To(MatchError(ContainSubstring("decode response")))

		_, err = c.Files(context.Background())
		Expect(err).To(MatchError(ContainSubstring("returned status 500")))
		Expect(errors.Is(err, eventstore.ErrNotFound)).To(BeFalse())
	})

	It("tolerates a nil client", func() {
		var c *client.Client
		_, err := c.Files(context.Background())
		Expect(err).To(HaveOccurred())
	})
})
