/*
Package server exposes a grown tree over HTTP.

Routes:
  - POST /v1/classify: classifies the record in the JSON body
    {"record": {"attribute": "value", ...}} and responds with
    {"class": "...", "unclassified": false}. Records lacking a
    split attribute on their path get a 422 response.
  - GET /v1/tree: the tree rendered as text, or its JSON snapshot
    with ?format=json.
  - GET /healthz: liveness and the ID of the served tree.
  - GET /metrics: prometheus metrics.
*/
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pbanos/c45/feature"
	"github.com/pbanos/c45/tree"
	treejson "github.com/pbanos/c45/tree/json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// ClassifyRequest is the body of a classification request.
type ClassifyRequest struct {
	Record map[string]string `json:"record" binding:"required"`
}

// ClassifyResponse is the body of a successful classification response.
type ClassifyResponse struct {
	Class        string `json:"class"`
	Unclassified bool   `json:"unclassified"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Attribute string `json:"attribute,omitempty"`
}

// HealthResponse is the body of a health check response.
type HealthResponse struct {
	Status string `json:"status"`
	Tree   string `json:"tree"`
}

// Server serves classifications with a tree. Trees are immutable once
// grown, so requests are served concurrently without locking.
type Server struct {
	tree           *tree.Tree
	logger         logrus.FieldLogger
	gatherer       prometheus.Gatherer
	classification *prometheus.CounterVec
}

/*
New takes a tree, a logger and a prometheus registry and returns a Server
for the tree. The classification metrics of the server are registered in
the registry, which is also the one served on /metrics.
*/
func New(t *tree.Tree, logger logrus.FieldLogger, reg *prometheus.Registry) *Server {
	classification := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "c45",
		Subsystem: "server",
		Name:      "classifications_total",
		Help:      "Number of classification requests, by result.",
	}, []string{"result"})
	reg.MustRegister(classification)
	return &Server{t, logger, reg, classification}
}

// Handler returns the gin engine with all the routes of the server.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests)
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	v1 := router.Group("/v1")
	v1.POST("/classify", s.handleClassify)
	v1.GET("/tree", s.handleTree)
	return router
}

/*
Run serves the routes on the given address until the context is done,
then shuts the server down waiting up to the given grace period for
pending requests.
*/
func (s *Server) Run(ctx context.Context, addr string, grace time.Duration) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errs := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("serving tree")
		errs <- srv.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	err := srv.Shutdown(sctx)
	if err != nil {
		return err
	}
	if err = <-errs; err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleClassify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.classification.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	class, err := s.tree.Classify(c.Request.Context(), feature.Record(req.Record))
	if err != nil {
		var mae *tree.MissingAttributeError
		if errors.As(err, &mae) {
			s.classification.WithLabelValues("missing-attribute").Inc()
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Attribute: mae.Attribute})
			return
		}
		s.classification.WithLabelValues("error").Inc()
		s.logger.WithError(err).Error("classifying record")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if class == tree.Unclassified {
		s.classification.WithLabelValues(tree.Unclassified).Inc()
		c.JSON(http.StatusOK, ClassifyResponse{Class: class, Unclassified: true})
		return
	}
	s.classification.WithLabelValues("classified").Inc()
	c.JSON(http.StatusOK, ClassifyResponse{Class: class})
}

func (s *Server) handleTree(c *gin.Context) {
	if c.Query("format") == "json" {
		data, err := treejson.Encode(s.tree)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json", data)
		return
	}
	c.String(http.StatusOK, s.tree.String())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Tree: s.tree.ID})
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.WithFields(logrus.Fields{
		"method":   c.Request.Method,
		"path":     c.Request.URL.Path,
		"status":   c.Writer.Status(),
		"duration": time.Since(start),
	}).Debug("request served")
}
