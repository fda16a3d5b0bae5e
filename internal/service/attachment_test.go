package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"courtflow/internal/model"
	"courtflow/internal/policy"
	repoMocks "courtflow/internal/repository/mocks"
	"courtflow/internal/storage"
	storeMocks "courtflow/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	judge = model.Actor{ID: "u-judge", Role: model.RoleJudge, DepartmentID: "dep-1"}
	pres  = model.Actor{ID: "u-pres", Role: model.RoleCourtPresident, DepartmentID: "dep-1"}
)

func ownedDraft() *model.Expediente {
	return &model.Expediente{
		ID:           "exp-1",
		Status:       model.ExpedienteDraft,
		DepartmentID: "dep-1",
		OwnerID:      judge.ID,
		Version:      1,
	}
}

func TestAttachmentService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name             string
		actor            model.Actor
		expedienteID     string
		originalFilename string
		contentType      string
		size             int64
		setupMocks       func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAttachmentRepository, mExp *repoMocks.MockExpedienteRepository) io.Reader
		wantErr          error
		wantPredicate    string
		wantErrMsg       string
	}{
		{
			name:             "happy path",
			actor:            judge,
			expedienteID:     "exp-1",
			originalFilename: "evidence.pdf",
			contentType:      "application/pdf",
			size:             11,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAttachmentRepository, mExp *repoMocks.MockExpedienteRepository) io.Reader {
				r := strings.NewReader("hello world")
				mExp.On("FindByID", ctx, "exp-1").Return(ownedDraft(), nil)
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "expedientes/exp-1/") && strings.HasSuffix(key, ".pdf")
				}), r, storage.PutObjectOptions{
					Size:        11,
					ContentType: "application/pdf",
					Metadata:    map[string]string{"original-filename": "evidence.pdf"},
				}).Return(storage.ObjectInfo{
					Key:         "expedientes/exp-1/uuid.pdf",
					Size:        11,
					ContentType: "application/pdf",
				}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(att *model.Attachment) bool {
					return att.ExpedienteID == "exp-1" &&
						att.StoragePath == "expedientes/exp-1/uuid.pdf" &&
						att.UploadedBy == judge.ID
				})).Return(&model.Attachment{ID: "gen-id"}, nil)

				return r
			},
		},
		{
			name:             "validation error - nil reader",
			actor:            judge,
			expedienteID:     "exp-1",
			originalFilename: "evidence.pdf",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAttachmentRepository, mExp *repoMocks.MockExpedienteRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name:             "only the owner attaches to a draft",
			actor:            pres,
			expedienteID:     "exp-1",
			originalFilename: "evidence.pdf",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAttachmentRepository, mExp *repoMocks.MockExpedienteRepository) io.Reader {
				mExp.On("FindByID", ctx, "exp-1").Return(ownedDraft(), nil)
				return strings.NewReader("hello")
			},
			wantPredicate: policy.PredicateNotOwner,
		},
		{
			name:             "no attaching while pending",
			actor:            judge,
			expedienteID:     "exp-1",
			originalFilename: "evidence.pdf",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAttachmentRepository, mExp *repoMocks.MockExpedienteRepository) io.Reader {
				pending := ownedDraft()
				pending.Status = model.ExpedientePending
				pending.CurrentLevel = model.LevelCourtPresident
				mExp.On("FindByID", ctx, "exp-1").Return(pending, nil)
				return strings.NewReader("hello")
			},
			wantPredicate: policy.PredicateNotEditable,
		},
		{
			name:             "missing case file",
			actor:            judge,
			expedienteID:     "exp-404",
			originalFilename: "evidence.pdf",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAttachmentRepository, mExp *repoMocks.MockExpedienteRepository) io.Reader {
				mExp.On("FindByID", ctx, "exp-404").Return(nil, sql.ErrNoRows)
				return strings.NewReader("hello")
			},
			wantErr: ErrNotFound,
		},
		{
			name:             "storage error",
			actor:            judge,
			expedienteID:     "exp-1",
			originalFilename: "evidence.pdf",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAttachmentRepository, mExp *repoMocks.MockExpedienteRepository) io.Reader {
				r := strings.NewReader("hello")
				mExp.On("FindByID", ctx, "exp-1").Return(ownedDraft(), nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:             "db failure rolls back the object",
			actor:            judge,
			expedienteID:     "exp-1",
			originalFilename: "evidence.pdf",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAttachmentRepository, mExp *repoMocks.MockExpedienteRepository) io.Reader {
				r := strings.NewReader("hello")
				mExp.On("FindByID", ctx, "exp-1").Return(ownedDraft(), nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{Key: "expedientes/exp-1/uuid.pdf", Size: 5}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "expedientes/exp-1/")
				})).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockAttachmentRepository)
			mExp := new(repoMocks.MockExpedienteRepository)
			r := tt.setupMocks(mStore, mRepo, mExp)

			svc := NewAttachmentService(mStore, mRepo, mExp)
			_, err := svc.Upload(ctx, tt.actor, tt.expedienteID, r, tt.originalFilename, tt.contentType, tt.size)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantPredicate != "":
				var v *policy.Violation
				assert.ErrorAs(t, err, &v)
				assert.Equal(t, tt.wantPredicate, v.Predicate)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
			mExp.AssertExpectations(t)
		})
	}
}

func TestAttachmentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("visible case file lists attachments", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		mExp := new(repoMocks.MockExpedienteRepository)
		svc := NewAttachmentService(mStore, mRepo, mExp)

		mExp.On("FindByID", ctx, "exp-1").Return(ownedDraft(), nil)
		mRepo.On("ListByExpediente", ctx, "exp-1").Return([]model.Attachment{{ID: "att-1"}}, nil)

		atts, err := svc.List(ctx, judge, "exp-1")

		assert.NoError(t, err)
		assert.Len(t, atts, 1)
	})

	t.Run("invisible case file reads as not found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		mExp := new(repoMocks.MockExpedienteRepository)
		svc := NewAttachmentService(mStore, mRepo, mExp)

		mExp.On("FindByID", ctx, "exp-1").Return(ownedDraft(), nil)

		_, err := svc.List(ctx, pres, "exp-1")
		assert.ErrorIs(t, err, ErrNotFound)
		mRepo.AssertNotCalled(t, "ListByExpediente", mock.Anything, mock.Anything)
	})
}

func TestAttachmentService_DownloadURL(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockAttachmentRepository)
	mExp := new(repoMocks.MockExpedienteRepository)
	svc := NewAttachmentService(mStore, mRepo, mExp)

	att := &model.Attachment{ID: "att-1", ExpedienteID: "exp-1", StoragePath: "expedientes/exp-1/uuid.pdf"}
	mRepo.On("FindByID", ctx, "att-1").Return(att, nil)
	mExp.On("FindByID", ctx, "exp-1").Return(ownedDraft(), nil)
	mStore.On("PresignGet", ctx, "expedientes/exp-1/uuid.pdf", presignExpiry).
		Return("https://minio/presigned", nil)

	u, err := svc.DownloadURL(ctx, judge, "att-1")

	assert.NoError(t, err)
	assert.Equal(t, "https://minio/presigned", u)
	mStore.AssertExpectations(t)
}

func TestAttachmentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner removes an attachment from a draft", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		mExp := new(repoMocks.MockExpedienteRepository)
		svc := NewAttachmentService(mStore, mRepo, mExp)

		att := &model.Attachment{ID: "att-1", ExpedienteID: "exp-1", StoragePath: "expedientes/exp-1/uuid.pdf"}
		mRepo.On("FindByID", ctx, "att-1").Return(att, nil)
		mExp.On("FindByID", ctx, "exp-1").Return(ownedDraft(), nil)
		mStore.On("Delete", ctx, "expedientes/exp-1/uuid.pdf").Return(nil)
		mRepo.On("Delete", ctx, "att-1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, judge, "att-1"))
		mRepo.AssertExpectations(t)
	})

	t.Run("storage failure keeps the record", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAttachmentRepository)
		mExp := new(repoMocks.MockExpedienteRepository)
		svc := NewAttachmentService(mStore, mRepo, mExp)

		att := &model.Attachment{ID: "att-1", ExpedienteID: "exp-1", StoragePath: "expedientes/exp-1/uuid.pdf"}
		mRepo.On("FindByID", ctx, "att-1").Return(att, nil)
		mExp.On("FindByID", ctx, "exp-1").Return(ownedDraft(), nil)
		mStore.On("Delete", ctx, "expedientes/exp-1/uuid.pdf").Return(errors.New("storage fail"))

		err := svc.Delete(ctx, judge, "att-1")
		assert.EqualError(t, err, "delete storage: storage fail")
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
