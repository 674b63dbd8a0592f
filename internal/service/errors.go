package service

import (
	"errors"
	"fmt"
)

// Domain failures carry user-facing Indonesian messages; unexpected
// persistence errors are wrapped and reduced to a generic message at the
// handler boundary.
var (
	ErrUserNotFound         = errors.New("Pengguna tidak ditemukan")
	ErrBankSampahNotFound   = errors.New("Bank sampah tidak ditemukan")
	ErrRewardNotFound       = errors.New("Hadiah tidak ditemukan")
	ErrSubmissionNotFound   = errors.New("Pengajuan tidak ditemukan")
	ErrVerificationNotFound = errors.New("Permintaan verifikasi tidak ditemukan")

	ErrOutOfStock             = errors.New("Stok hadiah habis")
	ErrSubmissionNotPending   = errors.New("Pengajuan sudah diproses")
	ErrVerificationNotPending = errors.New("Permintaan verifikasi sudah diproses")
	ErrOpenVerificationExists = errors.New("Permintaan verifikasi sebelumnya masih diproses")

	ErrForbidden          = errors.New("Akses ditolak")
	ErrEmailTaken         = errors.New("Email sudah terdaftar")
	ErrInvalidCredentials = errors.New("Email atau kata sandi salah")
	ErrInvalidRole        = errors.New("Peran tidak valid")
	ErrInvalidStatus      = errors.New("Status tidak valid")
	ErrInvalidAmount      = errors.New("Jumlah poin harus lebih dari nol")
	ErrInvalidWeight      = errors.New("Berat harus lebih dari nol")
)

// InsufficientPointsError reports a redemption attempt that exceeds the
// caller's derived balance, carrying both sides so the client can render the
// shortfall.
type InsufficientPointsError struct {
	CurrentPoints  int
	RequiredPoints int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("Poin tidak mencukupi: saldo %d, dibutuhkan %d", e.CurrentPoints, e.RequiredPoints)
}
