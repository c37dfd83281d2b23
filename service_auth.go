package authkit

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// LOGIN CREDENTIALS
// ============================================================================

// CreateLogin stores a new password credential for the user: a fresh salted
// bcrypt hash in a new row. Prior rows are never deleted; the newest row is
// the one VerifyLogin checks against.
func (s *Service) CreateLogin(ctx context.Context, userID, password string) (*Login, error) {
	if password == "" {
		return nil, NewError(ErrInvalidParameter, "password is required").WithUser(userID)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	login := &Login{
		LoginID:      uuid.NewString(),
		UserID:       userID,
		PasswordHash: string(hash),
	}
	result, err := s.db.NewInsert().Model(login).Exec(ctx)
	if err := dbkit.WithErr(result, err, "CreateLogin").Err(); err != nil {
		return nil, err
	}
	return login, nil
}

// VerifyLoginResult is the outcome of one verification attempt. User is set
// only on success. IsKnown reports whether a previous successful attempt
// exists for the same user and IP; hosts use it to flag logins from new
// locations.
type VerifyLoginResult struct {
	User    *User
	Success bool
	IsKnown bool
}

// VerifyLogin checks a username/password pair within a tenant (root tenant
// when tenantID is empty) and records the attempt, success or failure, with
// timestamp and IP. An unknown user fails without recording anything; a
// known user with no credential or a wrong password records a failure.
func (s *Service) VerifyLogin(ctx context.Context, userName, password, tenantID, loginIP string) (*VerifyLoginResult, error) {
	loginIP = clientIPOr(ctx, loginIP)
	user, err := s.GetUserByName(ctx, tenantID, userName)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &VerifyLoginResult{}, nil
	}

	var login Login
	err = dbkit.WithErr1(s.db.NewSelect().Model(&login).
		Where("user_id = ?", user.UserID).
		Order("created_at DESC").
		Limit(1).Scan(ctx), "VerifyLoginCredential").Err()
	if err != nil && !dbkit.IsNotFound(err) {
		return nil, err
	}

	success := err == nil &&
		bcrypt.CompareHashAndPassword([]byte(login.PasswordHash), []byte(password)) == nil

	// isKnown is computed before the attempt is recorded, so the attempt
	// being written right now does not count as prior history.
	isKnown := false
	if success {
		if isKnown, err = s.isKnownLogin(ctx, user.UserID, loginIP); err != nil {
			return nil, err
		}
	}
	if err := s.RecordLoginAttempt(ctx, user.UserID, success, loginIP); err != nil {
		return nil, err
	}

	result := &VerifyLoginResult{Success: success, IsKnown: isKnown}
	if success {
		result.User = user
	}
	return result, nil
}

// isKnownLogin reports whether a prior successful attempt exists for the
// exact (user, IP) pair.
func (s *Service) isKnownLogin(ctx context.Context, userID, loginIP string) (bool, error) {
	count, err := dbkit.Count[LoginAttempt](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", userID).
			Where("success = ?", true).
			Where("login_ip = ?", loginIP)
	})
	if err != nil {
		return false, dbkit.WithErr1(err, "IsKnownLogin").Err()
	}
	return count > 0, nil
}

// RecordLoginAttempt appends one attempt to the audit trail. Attempts are
// never updated or deleted except by cascade when the user goes away.
func (s *Service) RecordLoginAttempt(ctx context.Context, userID string, success bool, loginIP string) error {
	attempt := &LoginAttempt{
		UserID:  userID,
		Success: success,
		LoginIP: clientIPOr(ctx, loginIP),
		LoginAt: time.Now(),
	}
	result, err := s.db.NewInsert().Model(attempt).Exec(ctx)
	return dbkit.WithErr(result, err, "RecordLoginAttempt").Err()
}

// LastLoginAttempts holds the most recent successful and most recent failed
// attempt for a user, independently. Nil timestamps mean no attempt of that
// outcome exists.
type LastLoginAttempts struct {
	LastSuccessAt *time.Time
	LastSuccessIP string
	LastFailureAt *time.Time
	LastFailureIP string
}

// GetLastLoginAttempts returns the latest attempt of each outcome for the
// user, even when successes and failures interleave.
func (s *Service) GetLastLoginAttempts(ctx context.Context, userID string) (*LastLoginAttempts, error) {
	last := &LastLoginAttempts{}
	for _, success := range []bool{true, false} {
		var attempt LoginAttempt
		err := dbkit.WithErr1(s.db.NewSelect().Model(&attempt).
			Where("user_id = ?", userID).
			Where("success = ?", success).
			Order("login_at DESC").
			Limit(1).Scan(ctx), "GetLastLoginAttempts").Err()
		if err != nil {
			if dbkit.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		at := attempt.LoginAt
		if success {
			last.LastSuccessAt = &at
			last.LastSuccessIP = attempt.LoginIP
		} else {
			last.LastFailureAt = &at
			last.LastFailureIP = attempt.LoginIP
		}
	}
	return last, nil
}

// ============================================================================
// PASSWORD RESET
// ============================================================================

// PasswordResetInput selects who gets a reset code. Exactly one of UserName
// and Email must be set; email matching can select several users since the
// address is not unique.
type PasswordResetInput struct {
	TenantID  string
	UserName  string
	Email     string
	RequestIP string
}

// IssuedResetRequest is one freshly issued reset code, for delivery by the
// host's notifier. AuthKit never delivers codes itself.
type IssuedResetRequest struct {
	UserID      string
	UserName    string
	Email       string
	RequestCode string
}

// PasswordResetResult reports the outcome of RequestPasswordReset. Success
// is false, with Error set, when no user matched or a matched user's email
// is unverified; neither case is a Go error.
type PasswordResetResult struct {
	Success  bool
	Error    string
	Requests []IssuedResetRequest
}

// RequestPasswordReset issues a reset code for every matched user. A user's
// email must be verified; the first unverified user aborts the whole batch.
// Previously active requests for the user are expired first, keeping at most
// one active request per user, then a fresh request is inserted with an
// unguessable code and a ResetRequestTTL expiry window.
//
// The expire-then-insert sequence is not atomic on its own: two concurrent
// calls for the same user under read-committed isolation can each miss the
// other's insert and leave two active requests. Callers that need the
// invariant under concurrency should run this inside
// TransactionWithOptions(ctx, dbkit.SerializableTxOptions(), ...).
func (s *Service) RequestPasswordReset(ctx context.Context, input PasswordResetInput) (*PasswordResetResult, error) {
	if input.UserName != "" && input.Email != "" {
		return nil, NewError(ErrInvalidParameter, "cannot specify both userName and email")
	}
	if input.UserName == "" && input.Email == "" {
		return nil, NewError(ErrInvalidParameter, "one of userName or email must be specified")
	}

	var users []User
	if input.UserName != "" {
		user, err := s.GetUserByName(ctx, input.TenantID, input.UserName)
		if err != nil {
			return nil, err
		}
		if user != nil {
			users = append(users, *user)
		}
	} else {
		matched, err := s.GetUsersByEmail(ctx, input.TenantID, input.Email)
		if err != nil {
			return nil, err
		}
		users = matched
	}
	if len(users) == 0 {
		return &PasswordResetResult{Success: false, Error: "user not found"}, nil
	}

	requestIP := clientIPOr(ctx, input.RequestIP)
	result := &PasswordResetResult{Success: true}
	for _, user := range users {
		if user.EmailVerifiedAt == nil {
			return &PasswordResetResult{Success: false, Error: "email not verified"}, nil
		}

		now := time.Now()
		expire, err := s.db.NewUpdate().Model((*PasswordResetRequest)(nil)).
			Set("expire_at = ?", now).
			Where("user_id = ?", user.UserID).
			Where("reset_at IS NULL").
			Where("expire_at > ?", now).
			Exec(ctx)
		if err := dbkit.WithErr(expire, err, "ExpireResetRequests").Err(); err != nil {
			return nil, err
		}

		request := &PasswordResetRequest{
			RequestID:   uuid.NewString(),
			UserID:      user.UserID,
			RequestCode: newRequestCode(),
			RequestAt:   now,
			ExpireAt:    now.Add(s.config.ResetRequestTTL),
			RequestIP:   requestIP,
		}
		insert, err := s.db.NewInsert().Model(request).Exec(ctx)
		if err := dbkit.WithErr(insert, err, "InsertResetRequest").Err(); err != nil {
			return nil, err
		}

		result.Requests = append(result.Requests, IssuedResetRequest{
			UserID:      user.UserID,
			UserName:    user.UserName,
			Email:       user.Email,
			RequestCode: request.RequestCode,
		})
	}
	return result, nil
}

// GetPasswordResetRequests returns active requests issued at or after the
// filter watermark, oldest first, paginated. Callers page by passing the
// last returned RequestAt as the next Since and skipping the last-seen
// request id, until a page comes back short.
func (s *Service) GetPasswordResetRequests(ctx context.Context, filter ResetRequestFilter) ([]PasswordResetRequest, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = s.config.PageLimit
	}
	var requests []PasswordResetRequest
	err := dbkit.WithErr1(s.db.NewSelect().Model(&requests).
		Where("request_at >= ?", filter.Since).
		Where("expire_at > ?", time.Now()).
		Where("reset_at IS NULL").
		Order("request_at ASC").
		Limit(limit).
		Offset(filter.Offset).
		Scan(ctx), "GetPasswordResetRequests").Err()
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ResetPassword consumes a reset code: when the code belongs to an active,
// not-yet-consumed request, a new login credential is created and the
// request stamped as consumed. Expired, unknown or already-consumed codes
// report false without an error; a code succeeds exactly once.
func (s *Service) ResetPassword(ctx context.Context, requestCode, newPassword, resetIP string) (bool, error) {
	var request PasswordResetRequest
	err := dbkit.WithErr1(s.db.NewSelect().Model(&request).
		Where("request_code = ?", requestCode).
		Where("expire_at > ?", time.Now()).
		Limit(1).Scan(ctx), "GetResetRequest").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if request.ResetAt != nil {
		return false, nil
	}

	if _, err := s.CreateLogin(ctx, request.UserID, newPassword); err != nil {
		return false, err
	}
	result, err := s.db.NewUpdate().Model((*PasswordResetRequest)(nil)).
		Set("reset_at = ?", time.Now()).
		Set("reset_ip = ?", clientIPOr(ctx, resetIP)).
		Where("request_code = ?", requestCode).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "ConsumeResetRequest").Err(); err != nil {
		return false, err
	}
	return true, nil
}

// newRequestCode returns a short, unguessable, single-use code. ULIDs with
// crypto/rand entropy carry 80 random bits in 26 characters.
func newRequestCode() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
