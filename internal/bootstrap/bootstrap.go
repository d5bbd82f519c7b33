// Copyright 2025 CRE Studio Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ibrahim77gh/cre-studio-backend/internal/consts"
	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/internal/notify"
	"github.com/ibrahim77gh/cre-studio-backend/internal/repo"
	"github.com/ibrahim77gh/cre-studio-backend/internal/router"
	"github.com/ibrahim77gh/cre-studio-backend/internal/service"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/cache"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/ctx"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/database"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/log"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/queue"
)

// Run wires the whole service and blocks until SIGINT/SIGTERM.
func Run(confFile string) error {
	appConf := NewConf(confFile)

	log.MustInit(&appConf.Log)

	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	if err := db.AutoMigrate(
		&model.PropertyGroup{},
		&model.Property{},
		&model.User{},
		&model.Membership{},
		&model.App{},
		&model.UserAppAccess{},
		&model.Campaign{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	redisClient, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	redisCache := cache.NewRedisCache(redisClient)

	appCtx := ctx.NewContext(context.Background(), db, redisCache, log.GetLogger())

	// repositories
	userRepo := repo.NewUserRepo(appCtx)
	membershipRepo := repo.NewMembershipRepo(appCtx)
	propertyRepo := repo.NewPropertyRepo(appCtx)
	campaignRepo := repo.NewCampaignRepo(appCtx)
	appRepo := repo.NewAppRepo(appCtx)

	// outbound notification path: enqueue on the api side, deliver on the
	// worker side of the same process
	queueClient, err := queue.NewClient(appConf.Queue)
	if err != nil {
		return fmt.Errorf("failed to create queue client: %w", err)
	}
	notifier := notify.NewAsyncNotifier(queueClient)
	mailer := notify.NewMailer(appConf.Mail)

	queueServer := queue.NewServer(appConf.Queue)
	notify.RegisterHandlers(queueServer, mailer, func() (int64, error) {
		return userRepo.CountExpiredInvitations(time.Now().Add(-consts.InvitationTTL))
	})
	if err := queueServer.Start(); err != nil {
		return fmt.Errorf("failed to start queue server: %w", err)
	}

	scheduler := queue.NewScheduler(appConf.Queue)
	if err := scheduler.Register("@hourly", notify.TaskInvitationSweep, nil); err != nil {
		log.Warnw("failed to register invitation sweep", "error", err)
	} else if err := scheduler.Start(); err != nil {
		log.Warnw("failed to start scheduler", "error", err)
	}

	// services
	scopeService := service.NewScopeService(membershipRepo, propertyRepo, userRepo, campaignRepo)
	permissionService := service.NewPermissionService(membershipRepo, propertyRepo, scopeService)
	invitationService := service.NewInvitationService(userRepo, notifier)
	userService := service.NewUserService(userRepo, membershipRepo, propertyRepo, scopeService, permissionService, invitationService)
	ssoService := service.NewSSOService(membershipRepo)
	authService := service.NewAuthService(redisCache, userRepo, appRepo, ssoService)

	rt := router.NewRouter(&appConf.Http, appCtx,
		userRepo, propertyRepo,
		scopeService, permissionService, invitationService, userService, authService)
	app := rt.Router()

	addr := fmt.Sprintf("%s:%d", appConf.Http.Host, appConf.Http.Port)
	go func() {
		log.Infow("http server listening", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("http server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	scheduler.Shutdown()
	queueServer.Shutdown()
	_ = queueClient.Close()

	shutdownTimeout := time.Duration(appConf.Http.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Errorw("http shutdown failed", "error", err)
	}
	return nil
}
