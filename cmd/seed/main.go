package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ikkim/wallhub-backend/config"
	"github.com/ikkim/wallhub-backend/internal/app"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	"github.com/ikkim/wallhub-backend/internal/db"
	"github.com/ikkim/wallhub-backend/internal/storage"
	"github.com/ikkim/wallhub-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// 시트 컬럼 순서: 파일 경로 | 제목 | 설명 | 카테고리 | 태그(쉼표 구분) | 업로더 아이디
const (
	colPath = iota
	colTitle
	colDescription
	colCategory
	colTags
	colUploader
)

type seedRow struct {
	Line     int
	Path     string
	Uploader string
	Request  model.CreateWallpaperRequest
}

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	fileStorage, err := storage.New(cfg.Storage, cfg.S3)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}
	services := app.NewServices(cfg, db.GetDB(), fileStorage, nil, nil)
	userRepo := repository.NewUserRepository(db.GetDB())

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	rows, skipped, err := readWallpaperRows(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total wallpapers to import: %d (skipped rows: %d)\n", len(rows), skipped)

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 이미지 경로는 XLSX 파일 기준 상대 경로
	baseDir := filepath.Dir(filePath)
	uploaders := make(map[string]uint)
	imported, failed := 0, 0

	for _, row := range rows {
		uploaderID, ok := uploaders[row.Uploader]
		if !ok {
			user, err := userRepo.FindByUsername(row.Uploader)
			if err != nil {
				fmt.Printf("  line %d: unknown uploader %q\n", row.Line, row.Uploader)
				failed++
				continue
			}
			uploaderID = user.ID
			uploaders[row.Uploader] = uploaderID
		}

		path := row.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("  line %d: %v\n", row.Line, err)
			failed++
			continue
		}

		file, err := services.Upload.ProcessBytes(context.Background(), data)
		if err != nil {
			fmt.Printf("  line %d: %v\n", row.Line, err)
			failed++
			continue
		}
		if _, err := services.Wallpaper.Create(uploaderID, row.Request, file); err != nil {
			services.Upload.RemoveFiles(context.Background(), file.FileKey, file.ThumbnailKey)
			fmt.Printf("  line %d: %v\n", row.Line, err)
			failed++
			continue
		}
		imported++
	}

	fmt.Println("Import completed!")
	fmt.Printf("Imported: %d, failed: %d\n", imported, failed)
}

// readWallpaperRows 첫 시트를 읽어 업로드 요청으로 변환. 첫 행은 헤더
func readWallpaperRows(r io.Reader) ([]seedRow, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	all, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(all) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var rows []seedRow
	skipped := 0
	for i, row := range all[1:] {
		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		path, uploader := cell(colPath), cell(colUploader)
		if path == "" || uploader == "" {
			skipped++
			continue
		}

		category := model.WallpaperCategory(strings.ToLower(cell(colCategory)))
		if category == "" {
			category = model.CategoryGeneral
		}
		if !category.Valid() {
			skipped++
			continue
		}

		rows = append(rows, seedRow{
			Line:     i + 2,
			Path:     path,
			Uploader: uploader,
			Request: model.CreateWallpaperRequest{
				Title:       cell(colTitle),
				Description: cell(colDescription),
				Category:    category,
				Tags:        util.SplitCSV(cell(colTags)),
			},
		})
	}

	return rows, skipped, nil
}
