package ports

import (
	"context"
	"io"
)

// StoragePort คือ interface หลักสำหรับเก็บไฟล์ media (เช่น cover ของ post)
// ทำให้เปลี่ยน storage provider ได้ง่าย (Local, S3/MinIO)
type StoragePort interface {
	// UploadFile อัปโหลดไฟล์ไปยัง storage
	// path: เส้นทางที่จะเก็บไฟล์ (เช่น "posts/uuid/cover.jpg")
	// return: URL ที่เข้าถึงไฟล์ได้
	UploadFile(ctx context.Context, file io.Reader, size int64, path string, contentType string) (string, error)

	// DeleteFile ลบไฟล์จาก storage (ไม่มีไฟล์ถือว่าสำเร็จ)
	DeleteFile(ctx context.Context, path string) error

	// GetFileURL รับ URL สำหรับเข้าถึงไฟล์
	GetFileURL(path string) string

	// GetProviderName ชื่อ provider (local, s3)
	GetProviderName() string
}
