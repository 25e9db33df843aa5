package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr    string `default:"" env:"APP_HOST"`
		Port          int    `default:"8080"  env:"APP_PORT"`
		BodyLimitMb   int    `default:"20" env:"APP_BODY_LIMIT_MB"`
		SwaggerEnable *bool  `default:"true" env:"APP_SWAGGER_ENABLE"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"recruit-pipeline" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		From       string `default:"" env:"SMTP_FROM"`
		Domain     string `default:"localhost" env:"SMTP_MESSAGE_ID_DOMAIN"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		BucketName      string `default:"applicant-documents" env:"S3_BUCKET_NAME"`
		Region          string `default:"us-east-1" env:"S3_REGION"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
	}
	Auth struct {
		JWTSecret string `default:"" env:"AUTH_JWT_SECRET"`
	}
	Pdf struct {
		FontDir     string `default:"static/font/" env:"PDF_FONT_DIR"`
		FontRegular string `default:"NotoSansJP-Regular.ttf" env:"PDF_FONT_REGULAR"`
		FontBold    string `default:"NotoSansJP-Bold.ttf" env:"PDF_FONT_BOLD"`
	}
	Reminder struct {
		Enabled           *bool  `default:"true" env:"REMINDER_ENABLED"`
		StartDelaySeconds int    `default:"60" env:"REMINDER_START_DELAY_SECONDS"`
		IntervalMinutes   int    `default:"60" env:"REMINDER_INTERVAL_MINUTES"`
		RepeatHours       int    `default:"24" env:"REMINDER_REPEAT_HOURS"`
		Subject           string `default:"Напоминание о задаче" env:"REMINDER_SUBJECT"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
