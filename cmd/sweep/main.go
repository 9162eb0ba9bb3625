package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"melivro-backend/internal/config"
	bookmodel "melivro-backend/internal/domains/book/model"
	bookrepo "melivro-backend/internal/domains/book/repository"
	"melivro-backend/internal/infrastructure/database"
	"melivro-backend/internal/infrastructure/extraction"
	"melivro-backend/pkg/cache"
)

// sweep re-queries the extraction collaborator for every book and writes
// the resulting synopsis/rating/review-count updates to updates.sql for
// manual review. It never writes to the database directly.

const (
	outputFile = "updates.sql"
	pageSize   = 100
	// Pause between extraction calls to stay polite with the service.
	itemDelay = time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	if err := run(); err != nil {
		log.Fatalf("sweep failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Connect(ctx); err != nil {
		cancel()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	cancel()
	defer db.Close()

	extractor := extraction.NewClient(cfg.Extraction)
	repo := bookrepo.NewPostgresRepository(db.Pool, cache.NewNoop())

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputFile, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	defer w.Flush()

	fmt.Fprintln(w, "-- Synopses and ratings refresh, review before executing")

	processed, generated := 0, 0
	offset := 0
	for {
		books, _, err := repo.List(context.Background(), bookmodel.BookFilter{
			SortBy: "created_at",
			Order:  "asc",
			Limit:  pageSize,
			Offset: offset,
		})
		if err != nil {
			return fmt.Errorf("failed to list books: %w", err)
		}
		if len(books) == 0 {
			break
		}

		for _, book := range books {
			processed++
			log.Printf("fetching details for: %s", book.Title)

			if sweepBook(extractor, w, &book) {
				generated++
			}
			time.Sleep(itemDelay)
		}
		offset += pageSize
	}

	log.Printf("done: %d books processed, %d updates written to %s", processed, generated, outputFile)
	return nil
}

// sweepBook fetches details for one book and appends its UPDATE
// statement. A per-book failure is logged and skipped, never fatal.
func sweepBook(extractor *extraction.Client, w *bufio.Writer, book *bookmodel.Book) bool {
	query := buildQuery(book)
	searchURL := "https://www.amazon.com.br/s?k=" + url.QueryEscape(query)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	details, err := extractor.FetchPageDetails(ctx, searchURL)
	if err != nil {
		log.Printf("  error: %v", err)
		return false
	}
	if details == nil || (details.Synopsis == "" && details.Rating == 0 && details.ReviewCount == 0) {
		log.Printf("  no details found")
		return false
	}

	fmt.Fprintf(w, "UPDATE books SET synopsis = '%s', rating = %s, review_count = %s WHERE id = '%s';\n",
		escapeSQL(details.Synopsis),
		numericOrNull(details.Rating),
		intOrNull(details.ReviewCount),
		book.ID,
	)
	log.Printf("  rating: %.1f, update written", details.Rating)
	return true
}

func buildQuery(book *bookmodel.Book) string {
	if book.ISBN13 != nil && *book.ISBN13 != "" {
		return *book.ISBN13
	}
	return fmt.Sprintf("%s %s amazon.com.br", book.Title, book.Authors)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func numericOrNull(v float64) string {
	if v == 0 {
		return "NULL"
	}
	return fmt.Sprintf("%.2f", v)
}

func intOrNull(v int) string {
	if v == 0 {
		return "NULL"
	}
	return fmt.Sprintf("%d", v)
}
