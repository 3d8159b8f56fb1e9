package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/audit"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/credential"
	credrepo "github.com/ovaphlow/pitchfork/service-auth-go/internal/credential/repo"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/identity"
	identityrepo "github.com/ovaphlow/pitchfork/service-auth-go/internal/identity/repo"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/login"
	loginrepo "github.com/ovaphlow/pitchfork/service-auth-go/internal/login/repo"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/notify"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/organization"
	orgrepo "github.com/ovaphlow/pitchfork/service-auth-go/internal/organization/repo"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/otp"
	otprepo "github.com/ovaphlow/pitchfork/service-auth-go/internal/otp/repo"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/token"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-auth-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-auth-go")

	tokenCfg := token.ConfigFromEnv()
	if err := tokenCfg.Validate(); err != nil {
		sugar.Fatalf("token config: %v", err)
	}
	accessIssuer, err := token.NewIssuer(tokenCfg.AccessSecret, nil)
	if err != nil {
		sugar.Fatalf("access issuer: %v", err)
	}
	sessionIssuer, err := token.NewIssuer(tokenCfg.SessionSecret, nil)
	if err != nil {
		sugar.Fatalf("session issuer: %v", err)
	}

	dbCfg := database.ConfigFromEnv()
	db, err := database.Connect(dbCfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dbCfg.Migrate {
		if err := database.Migrate(ctx, db.DB); err != nil {
			sugar.Fatalf("db migrate: %v", err)
		}
		sugar.Info("migrations applied")
	}

	smsCfg := notify.ConfigFromEnv()
	sms, err := notify.NewSMSClient(smsCfg, &http.Client{Timeout: smsCfg.Timeout}, sugar)
	if err != nil {
		sugar.Fatalf("sms client: %v", err)
	}

	da := database.NewDataAccess(db)
	resolver := identity.NewResolver(identityrepo.NewIdentityRepo(da))
	otpSessions := otprepo.NewSessionRepo(da)
	passwords := credrepo.NewPasswordRepo(da)
	hasher := credential.BcryptHasher{Cost: 12}
	recorder := audit.NewRecorder(audit.ConfigFromEnv())

	otpSvc := otp.NewService(otp.Deps{
		Identities: resolver,
		Sessions:   otpSessions,
		Passwords:  passwords,
		Hasher:     hasher,
		Signer:     sessionIssuer,
		SMS:        sms,
		Message:    smsCfg.OTPMessage,
		Logger:     sugar,
	})
	loginSvc := login.NewService(login.ConfigFromEnv(), resolver, otpSessions, passwords,
		loginrepo.NewLoginRepo(da), hasher, accessIssuer, nil, sugar)

	routerCfg := router.ConfigFromEnv()
	handler := router.RegisterRoutes(routerCfg, sugar, router.Handlers{
		OTP:          otp.NewHandler(otpSvc, recorder, sugar),
		Login:        login.NewHandler(loginSvc, recorder, sugar),
		User:         user.NewHandler(user.NewUserService(userrepo.NewUserRepo(da), nil, nil), recorder, sugar),
		Organization: organization.NewHandler(organization.NewService(orgrepo.NewRepo(da), nil), sugar),
	})
	srv := &http.Server{
		Addr:              routerCfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("http server listening", "addr", routerCfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
