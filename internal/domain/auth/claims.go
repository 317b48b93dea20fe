package auth

// Claims は認証済みユーザーのクレームを表す
// 外部の認証基盤が発行したトークンから抽出された値のみを保持する
type Claims struct {
	Subject string
	Admin   bool
}

// RequireAdmin は管理者権限を検証する
// adminクレームがtrueでない場合（未設定を含む）はErrPermissionDeniedを返す
func RequireAdmin(c Claims) error {
	if !c.Admin {
		return ErrPermissionDenied
	}
	return nil
}
