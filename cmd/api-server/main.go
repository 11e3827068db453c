package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"genhub/internal/auth"
	"genhub/internal/chat"
	"genhub/internal/gedcomio"
	"genhub/internal/link"
	"genhub/internal/merge"
	"genhub/internal/notify"
	"genhub/internal/person"
	"genhub/internal/preview"
	"genhub/internal/share"
	synchub "genhub/internal/sync"
	"genhub/internal/tree"
	"genhub/pkg/database"
	"genhub/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	srvCfg := utils.LoadServerConfig()

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start TCP sync first (so you notice binding errors early)
	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub))
	tcpSrv := synchub.NewServer(srvCfg.SyncAddr, hub)

	// UDP notification fan-out
	registry := notify.NewRegistry()
	notifySrv := notify.NewServer(srvCfg.UDPAddr, registry, log.Default())

	// Collaboration chat rooms
	chatHub := chat.NewHub(0)
	router.GET("/chat/ws", chat.WSHandler(chatHub))
	router.GET("/chat/history", chat.HistoryHandler(chatHub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db":          cfg.Path,
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	treeRepo := tree.NewRepo(db)

	// Preview mode (anonymous scratch trees)
	previewRepo := preview.NewRepo(db)
	previewHandler := preview.NewHandler(previewRepo, treeRepo)
	previewHandler.RegisterRoutes(router.Group("/"))

	// Protected routes
	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware(tokenSvc, authRepo))

	previewHandler.RegisterProtectedRoutes(protected)

	personRepo := person.NewRepo(db)
	person.NewHandler(personRepo, hub).RegisterRoutes(protected)

	linkRepo := link.NewRepo(db)
	link.NewHandler(linkRepo, hub).RegisterRoutes(protected)

	tree.NewHandler(treeRepo, authRepo).RegisterRoutes(protected)

	shareRepo := share.NewRepo(db)
	share.NewHandler(shareRepo, authRepo, notifySrv).RegisterRoutes(protected)

	merge.NewHandler(treeRepo, shareRepo, authRepo, notifySrv).RegisterRoutes(protected)

	gedcomio.NewHandler(treeRepo, hub).RegisterRoutes(protected)

	httpSrv := &http.Server{
		Addr:    srvCfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := notifySrv.Run(); err != nil && !errors.Is(err, net.ErrClosed) {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", srvCfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}
	if err := notifySrv.Close(); err != nil {
		log.Printf("udp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
