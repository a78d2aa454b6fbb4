package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"connectrpc.com/connect"
	"github.com/naijatax/backend/internal/auth"
	"github.com/naijatax/backend/internal/blob"
	"github.com/naijatax/backend/internal/classifier"
	"github.com/naijatax/backend/internal/config"
	"github.com/naijatax/backend/internal/ingest"
	"github.com/naijatax/backend/internal/service"
	"github.com/naijatax/backend/internal/store"
	"github.com/rs/cors"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	var storeImpl store.Store
	var blobStore blob.Store = blob.NewMemoryStore()
	var firebaseAuth *auth.FirebaseAuth

	if cfg.UseMemoryStore {
		log.Println("Using in-memory store for local development")
		storeImpl = store.NewMemoryStore()
	} else {
		firestoreClient, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()
		storeImpl = store.NewFirestoreStore(firestoreClient)

		if cfg.UploadBucket != "" {
			storageClient, err := storage.NewClient(ctx)
			if err != nil {
				log.Fatalf("Failed to create Cloud Storage client: %v", err)
			}
			defer storageClient.Close()
			blobStore = blob.NewGCSStore(storageClient.Bucket(cfg.UploadBucket))
			log.Printf("Storing uploads in gs://%s", cfg.UploadBucket)
		}
	}

	if cfg.UseMemoryStore || cfg.SkipAuth {
		log.Println("⚠️  Using mock authentication (local development only)")
	} else {
		firebaseAuth, err = auth.NewFirebaseAuth(ctx, auth.FirebaseConfig{
			ProjectID:       cfg.ProjectID,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}
	}

	guards := newProviderGuards(cfg)
	taxService := service.NewTaxService(storeImpl, newVerifier(ctx, cfg, guards))
	taxService.SetBlobStore(blobStore)

	parser, analyzer := newIngestion(ctx, cfg, guards)
	taxService.SetStatementProcessor(ingest.NewProcessor(parser, analyzer, int(cfg.MaxPDFBytes)))
	if analyzer != nil {
		taxService.SetDocumentAnalyzer(analyzer)
	}

	var interceptors []connect.Interceptor
	if firebaseAuth != nil {
		interceptors = append(interceptors, auth.AuthInterceptor(firebaseAuth))
	} else {
		interceptors = append(interceptors, auth.LocalDevInterceptor())
	}

	path, handler := service.NewTaxServiceHandler(
		taxService,
		connect.WithInterceptors(interceptors...),
	)

	rate, err := limiter.NewRateFromFormatted(cfg.HTTPRateLimit)
	if err != nil {
		log.Fatalf("Invalid HTTP_RATE_LIMIT %q: %v", cfg.HTTPRateLimit, err)
	}
	rateLimit := stdlib.NewMiddleware(limiter.New(memory.NewStore(), rate))

	mux := http.NewServeMux()
	mux.Handle(path, rateLimit.Handler(handler))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
			"Content-Type",
			"Grpc-Timeout",
			"User-Agent",
			"X-Grpc-Web",
			"X-User-Agent",
			auth.ImpersonateHeader,
		},
		ExposedHeaders: []string{
			"Grpc-Status",
			"Grpc-Message",
			"Grpc-Status-Details-Bin",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(c.Handler(mux), &http2.Server{}),
	}

	log.Printf("Starting server on port %s (env=%s)", cfg.Port, cfg.Env)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// providerGuards holds one rate limiter and breaker per model provider.
// Classification and statement ingestion draw on the same provider quota,
// so they share its guard.
type providerGuards struct {
	gemini *classifier.Guard
	groq   *classifier.Guard
}

func newProviderGuards(cfg *config.Config) providerGuards {
	guardCfg := classifier.GuardConfig{
		PerMinute:        cfg.AIRatePerMinute,
		PerDay:           cfg.AIRatePerDay,
		FailureThreshold: cfg.AIBreakerThreshold,
		OpenTimeout:      cfg.AIBreakerTimeout,
	}
	return providerGuards{
		gemini: classifier.NewGuard(guardCfg),
		groq:   classifier.NewGuard(guardCfg),
	}
}

// newVerifier builds the transaction classifier. Gemini is preferred when
// both keys are set; with neither, classification uses keyword rules only.
func newVerifier(ctx context.Context, cfg *config.Config, guards providerGuards) *classifier.Verifier {
	switch {
	case cfg.GeminiAPIKey != "":
		gemini, err := classifier.NewGeminiModel(ctx, classifier.ModelConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		log.Printf("Classifier using %s", gemini.Name())
		return classifier.NewVerifier(gemini, guards.gemini, classifier.DefaultConfig)
	case cfg.GroqAPIKey != "":
		groq, err := classifier.NewGroqModel(classifier.ModelConfig{APIKey: cfg.GroqAPIKey, Model: cfg.GroqModel, BaseURL: cfg.GroqBaseURL})
		if err != nil {
			log.Fatalf("Failed to create Groq client: %v", err)
		}
		log.Printf("Classifier using %s", groq.Name())
		return classifier.NewVerifier(groq, guards.groq, classifier.DefaultConfig)
	default:
		log.Println("⚠️  No model API key set, transactions are classified by keyword rules only")
		return classifier.NewVerifier(nil, guards.gemini, classifier.DefaultConfig)
	}
}

// newIngestion builds the statement parser (text PDFs) and document
// analyzer (scans and images). Either may be nil when no key is set.
func newIngestion(ctx context.Context, cfg *config.Config, guards providerGuards) (*ingest.StatementParser, *ingest.DocumentAnalyzer) {
	var parser *ingest.StatementParser
	var analyzer *ingest.DocumentAnalyzer

	if cfg.GroqAPIKey != "" {
		groq, err := classifier.NewGroqModel(classifier.ModelConfig{APIKey: cfg.GroqAPIKey, Model: cfg.GroqModel, BaseURL: cfg.GroqBaseURL, MaxTokens: 8192})
		if err != nil {
			log.Fatalf("Failed to create Groq client: %v", err)
		}
		parser = ingest.NewStatementParser(classifier.Guarded(groq, guards.groq), classifier.DefaultRetryConfig)
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := classifier.NewGeminiModel(ctx, classifier.ModelConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel, MaxTokens: 8192})
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		guarded := classifier.GuardedDocument(gemini, guards.gemini)
		analyzer = ingest.NewDocumentAnalyzer(guarded, classifier.DefaultRetryConfig)
		if parser == nil {
			parser = ingest.NewStatementParser(guarded, classifier.DefaultRetryConfig)
		}
	}

	return parser, analyzer
}
