//go:build ignore
// +build ignore

// Sample sheet generator for local runs.
// Writes a CSV export shaped like the inquiry sheet so the server
// (source.type: csv) and inquiry-report can be exercised without Sheets access.
//
// Usage:
//   go run scripts/seed_sample_sheet.go --out=testdata/sample.csv --rows=500 --year=2025
//   go run ./cmd/inquiry-report summary --csv=testdata/sample.csv --unit=month --year=2025 --index=12

package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

var (
	receiptTypes = []string{"유선", "유선", "채팅", "채팅", "기타", "문의아님", ""}
	sources      = []string{
		"홈페이지", "홈페이지 상담신청", "네이버 파워링크", "구글 광고",
		"네이버 블로그", "유튜브", "인스타그램",
		"지인소개", "리마인드CRM", "재문의", "방문",
		"기존고객", "영업/광고전화", "오접수", "신규채널",
	}
	fields       = []string{"상표", "특허", "디자인", "저작권", "기타"}
	attorneys    = []string{"김변리", "이변리", "박변리", "", "  최변리 "}
	receptionist = []string{"정접수", "한접수"}
	surnames     = []string{"김", "이", "박", "최", "정", "강"}
	givenNames   = []string{"민준", "서연", "도윤", "하은", "지호", "수아"}
	amounts      = []string{"330000", "1,100,000원", "275,000(상표)\n165,000(갱신)", "1980000, 550000", "110000 or 275000", "미정"}
	dateLayouts  = []string{"2006-01-02", "2006/01/02", "2006. 1. 2.", "2006.01.02"}
)

func main() {
	out := flag.String("out", "testdata/sample.csv", "output CSV path")
	rows := flag.Int("rows", 500, "number of data rows")
	year := flag.Int("year", time.Now().Year(), "year the inquiry dates fall in")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	// UTF-8 BOM so spreadsheet tools open the Hangul correctly.
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		log.Fatalf("Failed to write BOM: %v", err)
	}

	w := csv.NewWriter(f)
	header := []string{
		"날짜", "시간", "접수유형", "세부매체", "분야", "고객명", "연락처", "이메일", "접수자",
		"메모", "비고", "리마인드", "담당변리사", "상담결과", "방문", "계약", "계약일", "계약금액",
	}
	if err := w.Write(header); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	start := time.Date(*year, 1, 1, 0, 0, 0, 0, time.UTC)
	contracts := 0
	for i := 0; i < *rows; i++ {
		day := start.AddDate(0, 0, rng.Intn(365))
		record := make([]string, len(header))
		record[0] = day.Format(dateLayouts[rng.Intn(len(dateLayouts))])
		record[1] = fmt.Sprintf("%02d:%02d", 9+rng.Intn(9), rng.Intn(60))
		record[2] = receiptTypes[rng.Intn(len(receiptTypes))]
		record[3] = sources[rng.Intn(len(sources))]
		record[4] = fields[rng.Intn(len(fields))]
		record[5] = surnames[rng.Intn(len(surnames))] + givenNames[rng.Intn(len(givenNames))]
		// A small phone pool so reminder and repeat inquiries collide within a month.
		if rng.Intn(10) > 0 {
			record[6] = fmt.Sprintf("010-%04d-%04d", 1000+rng.Intn(40), rng.Intn(10000))
		}
		record[7] = fmt.Sprintf("client%d@example.com", i)
		record[8] = receptionist[rng.Intn(len(receptionist))]
		record[11] = boolCell(rng.Intn(5) == 0)
		record[12] = attorneys[rng.Intn(len(attorneys))]
		visit := rng.Intn(4) == 0
		record[14] = boolCell(visit)
		if visit && rng.Intn(2) == 0 {
			contracts++
			record[15] = "TRUE"
			if rng.Intn(5) > 0 {
				record[16] = day.AddDate(0, 0, rng.Intn(30)).Format("2006-01-02")
			}
			record[17] = amounts[rng.Intn(len(amounts))]
		} else {
			record[15] = "FALSE"
		}
		if err := w.Write(record); err != nil {
			log.Fatalf("Failed to write row %d: %v", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Failed to flush CSV: %v", err)
	}

	fmt.Printf("✓ Wrote %d rows (%d contracts) to %s\n", *rows, contracts, *out)
}

func boolCell(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
