package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"scholar-pulse/config"
	"scholar-pulse/models"
	"scholar-pulse/services"
	"scholar-pulse/stores"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	evaluationsCounter     prometheus.Counter
	analyticsCounter       prometheus.Counter
	recommendationsCounter prometheus.Counter
)

func init() {
	evaluationsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "evaluations_computed_total",
		Help: "Total number of evaluation scores computed.",
	})
	analyticsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analytics_reports_built_total",
		Help: "Total number of analytics reports built.",
	})
	recommendationsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendations_served_total",
		Help: "Total number of recommendation requests served.",
	})
	prometheus.MustRegister(evaluationsCounter, analyticsCounter, recommendationsCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to portal database.")

	logging.Info("Running database auto-migration...")
	if err := migrate(db, cfg.CollabEnabled); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	// Bewertungstabellen laden (Defaults, wenn keine Pfade gesetzt sind).
	weights, err := services.LoadWeightTable(cfg.WeightTablePath)
	if err != nil {
		logging.Fatal("Weight table load error", zap.Error(err))
	}
	standards, err := services.LoadStandardsTable(cfg.StandardsPath)
	if err != nil {
		logging.Fatal("Standards table load error", zap.Error(err))
	}

	// Setup Stores & Services
	activityStores := stores.NewActivityStores(db)
	goalStore := stores.NewGoalStore(db)
	collabStore := stores.NewCollabStore(db, cfg.CollabEnabled)
	profileStore := stores.NewProfileStore(db)
	snapshotStore := stores.NewSnapshotStore(db, cfg.CollabEnabled)

	aggregator := services.NewAggregator(activityStores, logging)
	evaluator := services.NewEvaluator(aggregator, goalStore, weights, standards, logging)
	eventSource := services.NewEventSource(activityStores, logging)
	analytics := services.NewAnalytics(eventSource, logging)
	recommender := services.NewRecommender(collabStore, profileStore, snapshotStore, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupEvaluationRoutes(router, evaluator, goalStore, logging)
	setupAnalyticsRoutes(router, analytics, logging)
	setupRecommendationRoutes(router, recommender, logging)
	setupProjectRoutes(router, collabStore, logging)

	// Setup Cron: Snapshot-Refresh für kürzlich aktive Owner.
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.SnapshotCronSchedule, func() {
		logging.Info("Running scheduled snapshot refresh...")
		profiles, err := profileStore.RecentlyUpdated(context.Background(), cfg.SnapshotOwnerDays)
		if err != nil {
			logging.Error("Snapshot refresh failed to list owners", zap.Error(err))
			return
		}
		refreshed := 0
		for _, profile := range profiles {
			if _, err := recommender.ProjectsForResearcher(context.Background(), profile.UserID); err != nil {
				logging.Warn("Snapshot refresh failed for owner",
					zap.Uint("user_id", profile.UserID), zap.Error(err))
				continue
			}
			refreshed++
		}
		logging.Info("Snapshot refresh completed", zap.Int("owners", refreshed))
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func migrate(db *gorm.DB, collabEnabled bool) error {
	if err := db.AutoMigrate(
		&models.Research{}, &models.Conference{}, &models.Seminar{},
		&models.Workshop{}, &models.Course{}, &models.Assignment{},
		&models.ThankYouLetter{}, &models.Committee{}, &models.Certificate{},
		&models.Journal{}, &models.Supervision{}, &models.Reviewing{},
		&models.Position{}, &models.Volunteering{}, &models.FieldVisit{},
		&models.Goal{}, &models.ResearcherProfile{},
	); err != nil {
		return err
	}
	if !collabEnabled {
		return nil
	}
	return db.AutoMigrate(
		&models.Project{}, &models.ProjectTag{}, &models.ProjectRole{},
		&models.ProjectMember{}, &models.JoinRequest{},
		&models.RecommendationSnapshot{},
	)
}

// parseOwnerID liest die Owner-ID aus dem Pfad.
func parseOwnerID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("owner"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner id"})
		return 0, false
	}
	return uint(id), true
}

// parsePeriod validiert year/month an der Grenze: Integer oder "all".
// Ein Monat ohne Jahr ist ungültig; nicht-numerische Werte werden hier
// abgewiesen, bevor sie die Engine erreichen.
func parsePeriod(c *gin.Context) (stores.Period, bool) {
	var p stores.Period

	yearStr := c.DefaultQuery("year", "all")
	if yearStr != "all" {
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1900 || year > 3000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return p, false
		}
		p.Year = year
	}

	monthStr := c.DefaultQuery("month", "all")
	if monthStr != "all" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return p, false
		}
		if p.Year == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month requires a year"})
			return p, false
		}
		p.Month = time.Month(month)
	}
	return p, true
}

// parseYear liest ein Pflicht-Jahr aus der Query; leer = aktuelles Jahr.
func parseYear(c *gin.Context) (int, bool) {
	yearStr := c.Query("year")
	if yearStr == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1900 || year > 3000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, false
	}
	return year, true
}

// parseWindow liest from/to (YYYY-MM-DD); Default sind die letzten 12
// Monate.
func parseWindow(c *gin.Context) (from, to time.Time, ok bool) {
	now := time.Now().UTC()
	from = now.AddDate(-1, 0, 0)
	to = now

	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return from, to, false
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return from, to, false
		}
		to = t
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to before from"})
		return from, to, false
	}
	return from, to, true
}

func setupEvaluationRoutes(router *gin.Engine, evaluator *services.Evaluator, goals *stores.GoalStore, log *zap.Logger) {
	rg := router.Group("/evaluation")

	rg.GET("/:owner/counts", func(c *gin.Context) {
		ownerID, ok := parseOwnerID(c)
		if !ok {
			return
		}
		p, ok := parsePeriod(c)
		if !ok {
			return
		}
		counts, err := evaluator.Counts(c.Request.Context(), ownerID, p)
		if err != nil {
			log.Error("Aggregation failed", zap.Uint("owner_id", ownerID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"counts": counts})
	})

	rg.GET("/:owner/score", func(c *gin.Context) {
		ownerID, ok := parseOwnerID(c)
		if !ok {
			return
		}
		p, ok := parsePeriod(c)
		if !ok {
			return
		}
		evaluation, err := evaluator.Evaluate(c.Request.Context(), ownerID, p)
		if err != nil {
			log.Error("Evaluation failed", zap.Uint("owner_id", ownerID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		evaluationsCounter.Inc()
		c.JSON(http.StatusOK, evaluation)
	})

	rg.GET("/:owner/progress", func(c *gin.Context) {
		ownerID, ok := parseOwnerID(c)
		if !ok {
			return
		}
		year, ok := parseYear(c)
		if !ok {
			return
		}
		progress, err := evaluator.Progress(c.Request.Context(), ownerID, year)
		if err != nil {
			log.Error("Progress failed", zap.Uint("owner_id", ownerID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, progress)
	})

	rg.GET("/:owner/plan", func(c *gin.Context) {
		ownerID, ok := parseOwnerID(c)
		if !ok {
			return
		}
		year, ok := parseYear(c)
		if !ok {
			return
		}
		tasks, err := evaluator.WeeklyPlan(c.Request.Context(), ownerID, year)
		if err != nil {
			log.Error("Weekly plan failed", zap.Uint("owner_id", ownerID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": tasks})
	})

	// PUT - kompletten Jahreszielsatz ersetzen (idempotent).
	rg.PUT("/:owner/goals/:year", func(c *gin.Context) {
		ownerID, ok := parseOwnerID(c)
		if !ok {
			return
		}
		year, err := strconv.Atoi(c.Param("year"))
		if err != nil || year < 1900 || year > 3000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		var payload map[models.Category]int
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		for cat, target := range payload {
			if !cat.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + string(cat)})
				return
			}
			if target < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "negative target for " + string(cat)})
				return
			}
		}
		if err := goals.Replace(c.Request.Context(), ownerID, year, payload); err != nil {
			log.Error("Goal replace failed", zap.Uint("owner_id", ownerID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "goals replaced", "year": year})
	})
}

func setupAnalyticsRoutes(router *gin.Engine, analytics *services.Analytics, log *zap.Logger) {
	rg := router.Group("/analytics")

	rg.GET("/:owner", func(c *gin.Context) {
		ownerID, ok := parseOwnerID(c)
		if !ok {
			return
		}
		from, to, ok := parseWindow(c)
		if !ok {
			return
		}

		granularity := services.Granularity(c.DefaultQuery("granularity", "month"))
		if granularity != services.GranularityMonth && granularity != services.GranularityYear {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid granularity"})
			return
		}
		kind := c.DefaultQuery("type", services.KindAll)
		if kind != services.KindAll && kind != services.KindResearch && kind != services.KindActivities {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type"})
			return
		}

		opts := services.ReportOptions{From: from, To: to, Granularity: granularity, Kind: kind}
		if s := c.Query("compareFrom"); s != "" {
			cf, err := time.Parse("2006-01-02", s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid compareFrom date"})
				return
			}
			ct, err := time.Parse("2006-01-02", c.Query("compareTo"))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid compareTo date"})
				return
			}
			opts.CompareFrom = &cf
			opts.CompareTo = &ct
		}

		report, err := analytics.BuildReport(c.Request.Context(), ownerID, opts)
		if err != nil {
			log.Error("Analytics report failed", zap.Uint("owner_id", ownerID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		analyticsCounter.Inc()
		c.JSON(http.StatusOK, report)
	})
}

func setupRecommendationRoutes(router *gin.Engine, recommender *services.Recommender, log *zap.Logger) {
	rg := router.Group("/recommendations")

	// Die Richtung wird über das Vorhandensein von projectId gewählt.
	rg.GET("/:owner", func(c *gin.Context) {
		ownerID, ok := parseOwnerID(c)
		if !ok {
			return
		}

		if projectStr := c.Query("projectId"); projectStr != "" {
			projectID, err := strconv.ParseUint(projectStr, 10, 64)
			if err != nil || projectID == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projectId"})
				return
			}
			researchers, err := recommender.ResearchersForProject(c.Request.Context(), uint(projectID))
			if errors.Is(err, stores.ErrProjectNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			if err != nil {
				log.Error("Researcher recommendation failed", zap.Uint64("project_id", projectID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
				return
			}
			recommendationsCounter.Inc()
			c.JSON(http.StatusOK, gin.H{"researchersForProject": researchers})
			return
		}

		result, err := recommender.ProjectsForResearcher(c.Request.Context(), ownerID)
		if err != nil {
			log.Error("Project recommendation failed", zap.Uint("owner_id", ownerID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		recommendationsCounter.Inc()
		c.JSON(http.StatusOK, result)
	})
}

func setupProjectRoutes(router *gin.Engine, collab *stores.CollabStore, log *zap.Logger) {
	rg := router.Group("/projects")

	rg.POST("/", func(c *gin.Context) {
		var project models.Project
		if err := c.ShouldBindJSON(&project); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if project.OwnerID == 0 || project.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id and title required"})
			return
		}
		if err := collab.CreateProject(c.Request.Context(), &project); err != nil {
			if errors.Is(err, stores.ErrCollabDisabled) {
				c.JSON(http.StatusNotFound, gin.H{"error": "collaboration not available"})
				return
			}
			log.Error("Project create failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusCreated, project)
	})

	// Private Projekte liefern für Nicht-Owner schlicht 404 — die Grenze
	// unterscheidet absichtlich nicht zwischen "existiert nicht" und
	// "nicht sichtbar".
	rg.GET("/:id", func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || projectID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}
		viewerID, err := strconv.ParseUint(c.Query("viewerId"), 10, 64)
		if err != nil || viewerID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "viewerId required"})
			return
		}
		project, err := collab.ProjectForViewer(c.Request.Context(), uint(projectID), uint(viewerID), c.Query("viewerCollege"))
		if errors.Is(err, stores.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		if err != nil {
			log.Error("Project fetch failed", zap.Uint64("project_id", projectID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, project)
	})

	// POST - Beitrittsanfrage; eine bestehende Anfrage desselben Requesters
	// wird ersetzt (replace-on-resubmit).
	rg.POST("/:id/requests", func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || projectID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}
		var payload struct {
			RequesterID uint   `json:"requester_id" binding:"required"`
			Message     string `json:"message"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "requester_id required"})
			return
		}
		if _, err := collab.ProjectByID(c.Request.Context(), uint(projectID)); err != nil {
			if errors.Is(err, stores.ErrProjectNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		member, err := collab.MembershipExists(c.Request.Context(), uint(projectID), payload.RequesterID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if member {
			c.JSON(http.StatusConflict, gin.H{"error": "already a member"})
			return
		}
		request, err := collab.SubmitRequest(c.Request.Context(), uint(projectID), payload.RequesterID, payload.Message)
		if err != nil {
			log.Error("Join request failed", zap.Uint64("project_id", projectID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusCreated, request)
	})

	// Status-Übergänge laufen über eine eigene Gruppe, damit sich die
	// Pfade nicht mit /projects/:id überschneiden.
	rq := router.Group("/requests")

	// Approve liest Kapazität und Mitgliedschaft vor dem Schreiben ohne
	// Isolation; parallele Approvals können am Kapazitäts-Check vorbei
	// laufen. Bekanntes Risiko des Workflows.
	rq.POST("/:id/approve", func(c *gin.Context) {
		requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || requestID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}
		request, err := collab.RequestByID(c.Request.Context(), uint(requestID))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if request.Status != models.RequestPending {
			c.JSON(http.StatusConflict, gin.H{"error": "request is not pending"})
			return
		}
		project, err := collab.ProjectByID(c.Request.Context(), request.ProjectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if project.Capacity > 0 {
			active, err := collab.ActiveMemberCount(c.Request.Context(), project.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
				return
			}
			if active >= int64(project.Capacity) {
				c.JSON(http.StatusConflict, gin.H{"error": "project is at capacity"})
				return
			}
		}
		if err := collab.UpdateRequestStatus(c.Request.Context(), request.ID, models.RequestApproved); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		member := models.ProjectMember{
			ProjectID: request.ProjectID,
			UserID:    request.RequesterID,
			Role:      models.MemberPlain,
			Active:    true,
		}
		if err := collab.AddMember(c.Request.Context(), &member); err != nil {
			log.Error("Member add failed", zap.Uint("request_id", request.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "approved", "member": member})
	})

	rq.POST("/:id/reject", func(c *gin.Context) {
		updateRequestStatus(c, collab, models.RequestRejected, log)
	})
	rq.POST("/:id/cancel", func(c *gin.Context) {
		updateRequestStatus(c, collab, models.RequestCanceled, log)
	})
}

func updateRequestStatus(c *gin.Context, collab *stores.CollabStore, status string, log *zap.Logger) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || requestID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}
	request, err := collab.RequestByID(c.Request.Context(), uint(requestID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if request.Status != models.RequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "request is not pending"})
		return
	}
	if err := collab.UpdateRequestStatus(c.Request.Context(), request.ID, status); err != nil {
		log.Error("Request status update failed", zap.Uint("request_id", request.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": status})
}
