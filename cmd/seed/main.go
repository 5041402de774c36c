package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/EmpoweredVote/candymap/internal/catalog"
	"github.com/EmpoweredVote/candymap/internal/houses"
)

// CLI flags
var (
	catalogPath = flag.String("catalog", "data/final.json", "Path to the building catalog snapshot")
	dsn         = flag.String("dsn", "", "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Generate and summarize only; no DB writes")
	confirm     = flag.Bool("confirm", false, "Required to replace existing submissions")
	seed        = flag.Uint64("seed", 0, "Random seed (0 = time based)")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}

	c, err := catalog.Load(*catalogPath)
	if err != nil {
		fatalf("catalog: %v", err)
	}

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	sets := houses.FakeSets(c.All(), rand.New(rand.NewPCG(s, s>>1)))

	total := 0
	for _, set := range sets {
		total += len(set)
	}
	fmt.Printf("Generated %d submissions across %d of %d buildings (seed %d)\n", total, len(sets), c.Len(), s)

	if *dryRun {
		fmt.Println("Dry run complete. No changes made.")
		return
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}
	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	var table sql.NullString
	if err := db.QueryRowContext(ctx, `SELECT to_regclass('candy.submissions')::text`).Scan(&table); err != nil {
		fatalf("check table: %v", err)
	}
	if !table.Valid {
		fatalf("candy.submissions does not exist; start the server once against this database first")
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	before, err := countSubmissions(ctx, tx)
	if err != nil {
		fatalf("pre-count: %v", err)
	}
	fmt.Printf("Before: submissions=%d\n", before)

	if _, err := tx.ExecContext(ctx, `DELETE FROM candy.submissions`); err != nil {
		fatalf("wipe submissions: %v", err)
	}
	if err := insertAll(ctx, tx, sets); err != nil {
		fatalf("insert submissions: %v", err)
	}

	after, err := countSubmissions(ctx, tx)
	if err != nil {
		fatalf("post-count: %v", err)
	}
	fmt.Printf("After:  submissions=%d\n", after)

	if after != int64(total) {
		fatalf("sanity check failed: inserted=%d expected=%d", after, total)
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Println("Seed complete")
}

func countSubmissions(ctx context.Context, tx *sql.Tx) (int64, error) {
	var n int64
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM candy.submissions`).Scan(&n)
	return n, err
}

func insertAll(ctx context.Context, tx *sql.Tx, sets map[string]houses.SubmissionSet) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candy.submissions
			(building_id, author, candy, candy_type, candy_count, no_candy_reason, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for buildingID, set := range sets {
		for author, s := range set {
			var candyType, candyCount sql.NullFloat64
			var reason sql.NullString
			if s.Candy {
				candyType = sql.NullFloat64{Float64: s.CandyType, Valid: true}
				candyCount = sql.NullFloat64{Float64: s.CandyCount, Valid: true}
			} else {
				reason = sql.NullString{String: string(s.Reason), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, buildingID, author, s.Candy, candyType, candyCount, reason); err != nil {
				return fmt.Errorf("insert submission %s/%s: %w", buildingID, author, err)
			}
		}
	}
	return nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
