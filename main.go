package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"recruit-pipeline-backend/config"
	apiv1 "recruit-pipeline-backend/controllers/v1"
	"recruit-pipeline-backend/fiberlog"
	"recruit-pipeline-backend/initializers"
	"recruit-pipeline-backend/middleware"
	"sync"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	bodyLimit := config.Conf.App.BodyLimitMb * 1024 * 1024
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	app.Use(fiberRecover.New())

	if *config.Conf.App.SwaggerEnable {
		swaggerCfg := swagger.Config{
			Path:     "/swagger",
			FilePath: "./docs/swagger.json",
		}
		app.Use(swagger.New(swaggerCfg))
	}

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))

	//этапы подбора
	pipeline := fiber.New()
	apiV1.Mount("/pipeline", pipeline)
	pipeline.Use(middleware.AuthorizationRequired())
	pipeline.Use(middleware.WithBodyLimit(int64(bodyLimit)))
	apiv1.InitStageApiRouters(pipeline)
	apiv1.InitTaskApiRouters(pipeline)
	apiv1.InitApplicantApiRouters(pipeline)
	apiv1.InitProgressApiRouters(pipeline)
	apiv1.InitRuleApiRouters(pipeline)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	go func() {
		_ = <-c
		wg.Add(1)
		defer wg.Done()
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
