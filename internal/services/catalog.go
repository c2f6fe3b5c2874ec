package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/modules/learning/grading"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Input structs use pointers so updates only touch the fields that were sent.

type CourseInput struct {
	Slug                      *string `json:"slug"`
	Title                     *string `json:"title"`
	Description               *string `json:"description"`
	PriceAmount               *int64  `json:"price_amount" binding:"omitempty,min=0"`
	Currency                  *string `json:"currency" binding:"omitempty,len=3"`
	IsPublished               *bool   `json:"is_published"`
	RequireSequentialProgress *bool   `json:"require_sequential_progress"`
}

type SectionInput struct {
	Title    *string `json:"title"`
	Order    *int    `json:"order" binding:"omitempty,min=0"`
	IsHidden *bool   `json:"is_hidden"`
}

type LessonInput struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	VideoID  *string `json:"video_id"`
	Order    *int    `json:"order" binding:"omitempty,min=0"`
	IsHidden *bool   `json:"is_hidden"`
}

type AttachmentInput struct {
	Name  string `json:"name" binding:"required"`
	URL   string `json:"url" binding:"required,url"`
	Order *int   `json:"order" binding:"omitempty,min=0"`
}

type QuizInput struct {
	IsMandatory  *bool `json:"is_mandatory"`
	PassingScore *int  `json:"passing_score"`
}

type QuestionInput struct {
	Text         *string  `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correct_index"`
	Order        *int     `json:"order" binding:"omitempty,min=0"`
}

type ProductInput struct {
	Slug        *string `json:"slug"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PriceAmount *int64  `json:"price_amount" binding:"omitempty,min=0"`
	Currency    *string `json:"currency" binding:"omitempty,len=3"`
	DownloadURL *string `json:"download_url" binding:"omitempty,url"`
	IsPublished *bool   `json:"is_published"`
}

type CatalogService interface {
	ListCourses(ctx context.Context, publishedOnly bool) ([]*types.Course, error)
	GetPublishedCourse(ctx context.Context, slug string) (*types.Course, error)
	GetCourseTree(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	CreateCourse(ctx context.Context, in CourseInput) (*types.Course, error)
	UpdateCourse(ctx context.Context, courseID uuid.UUID, in CourseInput) (*types.Course, error)
	DeleteCourse(ctx context.Context, courseID uuid.UUID) error

	CreateSection(ctx context.Context, courseID uuid.UUID, in SectionInput) (*types.Section, error)
	UpdateSection(ctx context.Context, sectionID uuid.UUID, in SectionInput) (*types.Section, error)
	DeleteSection(ctx context.Context, sectionID uuid.UUID) error

	CreateLesson(ctx context.Context, sectionID uuid.UUID, in LessonInput) (*types.Lesson, error)
	UpdateLesson(ctx context.Context, lessonID uuid.UUID, in LessonInput) (*types.Lesson, error)
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) error

	AddAttachment(ctx context.Context, lessonID uuid.UUID, in AttachmentInput) (*types.Attachment, error)
	DeleteAttachment(ctx context.Context, lessonID, attachmentID uuid.UUID) error

	CreateQuiz(ctx context.Context, lessonID uuid.UUID, in QuizInput) (*types.Quiz, error)
	UpdateQuiz(ctx context.Context, quizID uuid.UUID, in QuizInput) (*types.Quiz, error)
	DeleteQuiz(ctx context.Context, quizID uuid.UUID) error

	AddQuestion(ctx context.Context, quizID uuid.UUID, in QuestionInput) (*types.Question, error)
	UpdateQuestion(ctx context.Context, quizID, questionID uuid.UUID, in QuestionInput) (*types.Question, error)
	DeleteQuestion(ctx context.Context, quizID, questionID uuid.UUID) error

	ListProducts(ctx context.Context, publishedOnly bool) ([]*types.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*types.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, in ProductInput) (*types.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

type CatalogRepos struct {
	Courses     repos.CourseRepo
	Sections    repos.SectionRepo
	Lessons     repos.LessonRepo
	Attachments repos.AttachmentRepo
	Quizzes     repos.QuizRepo
	Questions   repos.QuestionRepo
	Products    repos.ProductRepo
}

type catalogService struct {
	log   *logger.Logger
	r     CatalogRepos
	cache CourseCache
}

func NewCatalogService(log *logger.Logger, r CatalogRepos, cache CourseCache) CatalogService {
	return &catalogService{
		log:   log.With("service", "CatalogService"),
		r:     r,
		cache: cache,
	}
}

// ---- courses ----

func (s *catalogService) ListCourses(ctx context.Context, publishedOnly bool) ([]*types.Course, error) {
	return s.r.Courses.List(dbctx.New(ctx), publishedOnly)
}

func (s *catalogService) GetPublishedCourse(ctx context.Context, slug string) (*types.Course, error) {
	c, err := s.r.Courses.GetBySlug(dbctx.New(ctx), strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if c == nil || !c.IsPublished {
		return nil, apierr.NotFound("course_not_found", "")
	}
	tree, err := s.cache.Get(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, apierr.NotFound("course_not_found", "")
	}
	return tree, nil
}

func (s *catalogService) GetCourseTree(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	c, err := s.r.Courses.GetTree(dbctx.New(ctx), courseID)
	if err != nil {
		return nil, fmt.Errorf("load course tree: %w", err)
	}
	if c == nil {
		return nil, apierr.NotFound("course_not_found", "")
	}
	return c, nil
}

func (s *catalogService) CreateCourse(ctx context.Context, in CourseInput) (*types.Course, error) {
	slug, err := requireSlug(in.Slug)
	if err != nil {
		return nil, err
	}
	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCourseSlugFree(ctx, slug, uuid.Nil); err != nil {
		return nil, err
	}
	c := &types.Course{
		Slug:                      slug,
		Title:                     title,
		Description:               deref(in.Description),
		PriceAmount:               derefInt64(in.PriceAmount),
		Currency:                  currencyOrDefault(in.Currency),
		IsPublished:               derefBool(in.IsPublished),
		RequireSequentialProgress: derefBool(in.RequireSequentialProgress),
	}
	if c.PriceAmount < 0 {
		return nil, apierr.Validation("invalid_price", "price_amount must be >= 0")
	}
	created, err := s.r.Courses.Create(dbctx.New(ctx), c)
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.log.Info("course created", "course_id", created.ID, "slug", created.Slug)
	return created, nil
}

func (s *catalogService) UpdateCourse(ctx context.Context, courseID uuid.UUID, in CourseInput) (*types.Course, error) {
	existing, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Slug != nil {
		slug, err := requireSlug(in.Slug)
		if err != nil {
			return nil, err
		}
		if slug != existing.Slug {
			if err := s.ensureCourseSlugFree(ctx, slug, courseID); err != nil {
				return nil, err
			}
		}
		updates["slug"] = slug
	}
	if in.Title != nil {
		title, err := requireText("title", in.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.PriceAmount != nil {
		if *in.PriceAmount < 0 {
			return nil, apierr.Validation("invalid_price", "price_amount must be >= 0")
		}
		updates["price_amount"] = *in.PriceAmount
	}
	if in.Currency != nil {
		updates["currency"] = currencyOrDefault(in.Currency)
	}
	if in.IsPublished != nil {
		updates["is_published"] = *in.IsPublished
	}
	if in.RequireSequentialProgress != nil {
		updates["require_sequential_progress"] = *in.RequireSequentialProgress
	}
	if len(updates) > 0 {
		if err := s.r.Courses.Update(dbctx.New(ctx), courseID, updates); err != nil {
			return nil, fmt.Errorf("update course: %w", err)
		}
		s.cache.Invalidate(ctx, courseID)
	}
	return s.loadCourse(ctx, courseID)
}

func (s *catalogService) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
	deleted, err := s.r.Courses.Delete(dbctx.New(ctx), courseID)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if !deleted {
		return apierr.NotFound("course_not_found", "")
	}
	s.cache.Invalidate(ctx, courseID)
	s.log.Info("course deleted", "course_id", courseID)
	return nil
}

// ---- sections ----

func (s *catalogService) CreateSection(ctx context.Context, courseID uuid.UUID, in SectionInput) (*types.Section, error) {
	if _, err := s.loadCourse(ctx, courseID); err != nil {
		return nil, err
	}
	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	order, err := s.sectionOrder(ctx, courseID, uuid.Nil, in.Order)
	if err != nil {
		return nil, err
	}
	sec, err := s.r.Sections.Create(dbctx.New(ctx), &types.Section{
		CourseID: courseID,
		Title:    title,
		Order:    order,
		IsHidden: derefBool(in.IsHidden),
	})
	if err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	s.cache.Invalidate(ctx, courseID)
	return sec, nil
}

func (s *catalogService) UpdateSection(ctx context.Context, sectionID uuid.UUID, in SectionInput) (*types.Section, error) {
	sec, err := s.loadSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Title != nil {
		title, err := requireText("title", in.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if in.Order != nil && *in.Order != sec.Order {
		order, err := s.sectionOrder(ctx, sec.CourseID, sec.ID, in.Order)
		if err != nil {
			return nil, err
		}
		updates["sort_order"] = order
	}
	if in.IsHidden != nil {
		updates["is_hidden"] = *in.IsHidden
	}
	if len(updates) > 0 {
		if err := s.r.Sections.Update(dbctx.New(ctx), sectionID, updates); err != nil {
			return nil, fmt.Errorf("update section: %w", err)
		}
		s.cache.Invalidate(ctx, sec.CourseID)
	}
	return s.loadSection(ctx, sectionID)
}

func (s *catalogService) DeleteSection(ctx context.Context, sectionID uuid.UUID) error {
	sec, err := s.loadSection(ctx, sectionID)
	if err != nil {
		return err
	}
	if _, err := s.r.Sections.Delete(dbctx.New(ctx), sectionID); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	s.cache.Invalidate(ctx, sec.CourseID)
	return nil
}

// ---- lessons ----

func (s *catalogService) CreateLesson(ctx context.Context, sectionID uuid.UUID, in LessonInput) (*types.Lesson, error) {
	sec, err := s.loadSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	order, err := s.lessonOrder(ctx, sectionID, uuid.Nil, in.Order)
	if err != nil {
		return nil, err
	}
	l, err := s.r.Lessons.Create(dbctx.New(ctx), &types.Lesson{
		SectionID: sectionID,
		Title:     title,
		Content:   nonEmpty(in.Content),
		VideoID:   nonEmpty(in.VideoID),
		Order:     order,
		IsHidden:  derefBool(in.IsHidden),
	})
	if err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	s.cache.Invalidate(ctx, sec.CourseID)
	return l, nil
}

func (s *catalogService) UpdateLesson(ctx context.Context, lessonID uuid.UUID, in LessonInput) (*types.Lesson, error) {
	l, err := s.loadLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Title != nil {
		title, err := requireText("title", in.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if in.Content != nil {
		updates["content"] = nonEmpty(in.Content)
	}
	if in.VideoID != nil {
		updates["video_id"] = nonEmpty(in.VideoID)
	}
	if in.Order != nil && *in.Order != l.Order {
		order, err := s.lessonOrder(ctx, l.SectionID, l.ID, in.Order)
		if err != nil {
			return nil, err
		}
		updates["sort_order"] = order
	}
	if in.IsHidden != nil {
		updates["is_hidden"] = *in.IsHidden
	}
	if len(updates) > 0 {
		if err := s.r.Lessons.Update(dbctx.New(ctx), lessonID, updates); err != nil {
			return nil, fmt.Errorf("update lesson: %w", err)
		}
		s.invalidateForLesson(ctx, lessonID)
	}
	return s.loadLesson(ctx, lessonID)
}

func (s *catalogService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	loc, err := s.locate(ctx, lessonID)
	if err != nil {
		return err
	}
	if _, err := s.r.Lessons.Delete(dbctx.New(ctx), lessonID); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	s.cache.Invalidate(ctx, loc.CourseID)
	return nil
}

// ---- attachments ----

func (s *catalogService) AddAttachment(ctx context.Context, lessonID uuid.UUID, in AttachmentInput) (*types.Attachment, error) {
	loc, err := s.locate(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	url := strings.TrimSpace(in.URL)
	if name == "" || url == "" {
		return nil, apierr.Validation("invalid_attachment", "name and url are required")
	}
	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		existing, err := s.r.Attachments.ListByLessonID(dbctx.New(ctx), lessonID)
		if err != nil {
			return nil, fmt.Errorf("list attachments: %w", err)
		}
		order = len(existing)
	}
	a, err := s.r.Attachments.Create(dbctx.New(ctx), &types.Attachment{LessonID: lessonID, Name: name, URL: url, Order: order})
	if err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	s.cache.Invalidate(ctx, loc.CourseID)
	return a, nil
}

func (s *catalogService) DeleteAttachment(ctx context.Context, lessonID, attachmentID uuid.UUID) error {
	loc, err := s.locate(ctx, lessonID)
	if err != nil {
		return err
	}
	deleted, err := s.r.Attachments.Delete(dbctx.New(ctx), lessonID, attachmentID)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if !deleted {
		return apierr.NotFound("attachment_not_found", "")
	}
	s.cache.Invalidate(ctx, loc.CourseID)
	return nil
}

// ---- quizzes ----

func (s *catalogService) CreateQuiz(ctx context.Context, lessonID uuid.UUID, in QuizInput) (*types.Quiz, error) {
	loc, err := s.locate(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	existing, err := s.r.Quizzes.GetByLessonID(dbctx.New(ctx), lessonID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if existing != nil {
		return nil, apierr.Conflict("quiz_exists", "lesson already has a quiz")
	}
	passing := 70
	if in.PassingScore != nil {
		passing = *in.PassingScore
	}
	if err := grading.ValidatePassingScore(passing); err != nil {
		return nil, err
	}
	q, err := s.r.Quizzes.Create(dbctx.New(ctx), &types.Quiz{
		LessonID:     lessonID,
		IsMandatory:  derefBool(in.IsMandatory),
		PassingScore: passing,
	})
	if err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	s.cache.Invalidate(ctx, loc.CourseID)
	return q, nil
}

func (s *catalogService) UpdateQuiz(ctx context.Context, quizID uuid.UUID, in QuizInput) (*types.Quiz, error) {
	q, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.PassingScore != nil {
		if err := grading.ValidatePassingScore(*in.PassingScore); err != nil {
			return nil, err
		}
		updates["passing_score"] = *in.PassingScore
	}
	if in.IsMandatory != nil {
		updates["is_mandatory"] = *in.IsMandatory
	}
	if len(updates) > 0 {
		if err := s.r.Quizzes.Update(dbctx.New(ctx), quizID, updates); err != nil {
			return nil, fmt.Errorf("update quiz: %w", err)
		}
		s.invalidateForLesson(ctx, q.LessonID)
	}
	return s.loadQuiz(ctx, quizID)
}

func (s *catalogService) DeleteQuiz(ctx context.Context, quizID uuid.UUID) error {
	q, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if _, err := s.r.Quizzes.Delete(dbctx.New(ctx), quizID); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.invalidateForLesson(ctx, q.LessonID)
	return nil
}

// ---- questions ----

func (s *catalogService) AddQuestion(ctx context.Context, quizID uuid.UUID, in QuestionInput) (*types.Question, error) {
	q, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if in.CorrectIndex == nil {
		return nil, apierr.Validation("invalid_question", "correct_index is required")
	}
	text := strings.TrimSpace(deref(in.Text))
	if err := grading.ValidateQuestion(text, in.Options, *in.CorrectIndex); err != nil {
		return nil, err
	}
	order, err := s.questionOrder(ctx, q, uuid.Nil, in.Order)
	if err != nil {
		return nil, err
	}
	created, err := s.r.Questions.Create(dbctx.New(ctx), &types.Question{
		QuizID:       quizID,
		Text:         text,
		Options:      datatypes.JSONSlice[string](trimAll(in.Options)),
		CorrectIndex: *in.CorrectIndex,
		Order:        order,
	})
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.invalidateForLesson(ctx, q.LessonID)
	return created, nil
}

func (s *catalogService) UpdateQuestion(ctx context.Context, quizID, questionID uuid.UUID, in QuestionInput) (*types.Question, error) {
	q, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	question, err := s.r.Questions.GetByID(dbctx.New(ctx), questionID)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}
	if question == nil || question.QuizID != quizID {
		return nil, apierr.NotFound("question_not_found", "")
	}
	if in.Text != nil {
		question.Text = strings.TrimSpace(*in.Text)
	}
	if in.Options != nil {
		question.Options = datatypes.JSONSlice[string](trimAll(in.Options))
	}
	if in.CorrectIndex != nil {
		question.CorrectIndex = *in.CorrectIndex
	}
	if in.Order != nil && *in.Order != question.Order {
		order, err := s.questionOrder(ctx, q, question.ID, in.Order)
		if err != nil {
			return nil, err
		}
		question.Order = order
	}
	// Shrinking options without moving correct_index is rejected here.
	if err := grading.ValidateQuestion(question.Text, question.Options, question.CorrectIndex); err != nil {
		return nil, err
	}
	if err := s.r.Questions.Save(dbctx.New(ctx), question); err != nil {
		return nil, fmt.Errorf("save question: %w", err)
	}
	s.invalidateForLesson(ctx, q.LessonID)
	return question, nil
}

func (s *catalogService) DeleteQuestion(ctx context.Context, quizID, questionID uuid.UUID) error {
	q, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	deleted, err := s.r.Questions.Delete(dbctx.New(ctx), quizID, questionID)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if !deleted {
		return apierr.NotFound("question_not_found", "")
	}
	s.invalidateForLesson(ctx, q.LessonID)
	return nil
}

// ---- products ----

func (s *catalogService) ListProducts(ctx context.Context, publishedOnly bool) ([]*types.Product, error) {
	return s.r.Products.List(dbctx.New(ctx), publishedOnly)
}

func (s *catalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error) {
	return s.loadProduct(ctx, productID)
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*types.Product, error) {
	slug, err := requireSlug(in.Slug)
	if err != nil {
		return nil, err
	}
	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	p := &types.Product{
		Slug:        slug,
		Title:       title,
		Description: deref(in.Description),
		PriceAmount: derefInt64(in.PriceAmount),
		Currency:    currencyOrDefault(in.Currency),
		DownloadURL: strings.TrimSpace(deref(in.DownloadURL)),
		IsPublished: derefBool(in.IsPublished),
	}
	if p.PriceAmount < 0 {
		return nil, apierr.Validation("invalid_price", "price_amount must be >= 0")
	}
	created, err := s.r.Products.Create(dbctx.New(ctx), p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, productID uuid.UUID, in ProductInput) (*types.Product, error) {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Slug != nil {
		slug, err := requireSlug(in.Slug)
		if err != nil {
			return nil, err
		}
		updates["slug"] = slug
	}
	if in.Title != nil {
		title, err := requireText("title", in.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.PriceAmount != nil {
		if *in.PriceAmount < 0 {
			return nil, apierr.Validation("invalid_price", "price_amount must be >= 0")
		}
		updates["price_amount"] = *in.PriceAmount
	}
	if in.Currency != nil {
		updates["currency"] = currencyOrDefault(in.Currency)
	}
	if in.DownloadURL != nil {
		updates["download_url"] = strings.TrimSpace(*in.DownloadURL)
	}
	if in.IsPublished != nil {
		updates["is_published"] = *in.IsPublished
	}
	if len(updates) > 0 {
		if err := s.r.Products.Update(dbctx.New(ctx), productID, updates); err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
	}
	return s.loadProduct(ctx, productID)
}

func (s *catalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	deleted, err := s.r.Products.Delete(dbctx.New(ctx), productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !deleted {
		return apierr.NotFound("product_not_found", "")
	}
	return nil
}

// ---- loaders ----

func (s *catalogService) loadCourse(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	c, err := s.r.Courses.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if c == nil {
		return nil, apierr.NotFound("course_not_found", "")
	}
	return c, nil
}

func (s *catalogService) loadSection(ctx context.Context, id uuid.UUID) (*types.Section, error) {
	sec, err := s.r.Sections.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load section: %w", err)
	}
	if sec == nil {
		return nil, apierr.NotFound("section_not_found", "")
	}
	return sec, nil
}

func (s *catalogService) loadLesson(ctx context.Context, id uuid.UUID) (*types.Lesson, error) {
	l, err := s.r.Lessons.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if l == nil {
		return nil, apierr.NotFound("lesson_not_found", "")
	}
	return l, nil
}

func (s *catalogService) loadQuiz(ctx context.Context, id uuid.UUID) (*types.Quiz, error) {
	q, err := s.r.Quizzes.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if q == nil {
		return nil, apierr.NotFound("quiz_not_found", "")
	}
	return q, nil
}

func (s *catalogService) loadProduct(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	p, err := s.r.Products.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("product_not_found", "")
	}
	return p, nil
}

func (s *catalogService) locate(ctx context.Context, lessonID uuid.UUID) (*repos.LessonLocation, error) {
	loc, err := s.r.Lessons.Locate(dbctx.New(ctx), lessonID)
	if err != nil {
		return nil, fmt.Errorf("locate lesson: %w", err)
	}
	if loc == nil {
		return nil, apierr.NotFound("lesson_not_found", "")
	}
	return loc, nil
}

func (s *catalogService) invalidateForLesson(ctx context.Context, lessonID uuid.UUID) {
	loc, err := s.r.Lessons.Locate(dbctx.New(ctx), lessonID)
	if err != nil || loc == nil {
		s.log.Warn("cannot resolve course for cache invalidation", "lesson_id", lessonID, "error", err)
		return
	}
	s.cache.Invalidate(ctx, loc.CourseID)
}

func (s *catalogService) ensureCourseSlugFree(ctx context.Context, slug string, self uuid.UUID) error {
	existing, err := s.r.Courses.GetBySlug(dbctx.New(ctx), slug)
	if err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apierr.Conflict("slug_taken", "slug %q is already used", slug)
	}
	return nil
}

// sectionOrder resolves the order for a new or moved section. Orders are unique
// per course.
func (s *catalogService) sectionOrder(ctx context.Context, courseID, self uuid.UUID, want *int) (int, error) {
	if want == nil {
		n, err := s.r.Sections.NextOrder(dbctx.New(ctx), courseID)
		if err != nil {
			return 0, fmt.Errorf("next section order: %w", err)
		}
		return n, nil
	}
	if *want < 0 {
		return 0, apierr.Validation("invalid_order", "order must be >= 0")
	}
	siblings, err := s.r.Sections.ListByCourseID(dbctx.New(ctx), courseID)
	if err != nil {
		return 0, fmt.Errorf("list sections: %w", err)
	}
	for _, sib := range siblings {
		if sib.ID != self && sib.Order == *want {
			return 0, apierr.Conflict("order_taken", "order %d is used by another section", *want)
		}
	}
	return *want, nil
}

func (s *catalogService) lessonOrder(ctx context.Context, sectionID, self uuid.UUID, want *int) (int, error) {
	if want == nil {
		n, err := s.r.Lessons.NextOrder(dbctx.New(ctx), sectionID)
		if err != nil {
			return 0, fmt.Errorf("next lesson order: %w", err)
		}
		return n, nil
	}
	if *want < 0 {
		return 0, apierr.Validation("invalid_order", "order must be >= 0")
	}
	siblings, err := s.r.Lessons.ListBySectionID(dbctx.New(ctx), sectionID)
	if err != nil {
		return 0, fmt.Errorf("list lessons: %w", err)
	}
	for _, sib := range siblings {
		if sib.ID != self && sib.Order == *want {
			return 0, apierr.Conflict("order_taken", "order %d is used by another lesson", *want)
		}
	}
	return *want, nil
}

// questionOrder resolves the order for a new or moved question. Answers are
// matched to questions by position, so orders are unique per quiz.
func (s *catalogService) questionOrder(ctx context.Context, quiz *types.Quiz, self uuid.UUID, want *int) (int, error) {
	if want == nil {
		n, err := s.r.Questions.NextOrder(dbctx.New(ctx), quiz.ID)
		if err != nil {
			return 0, fmt.Errorf("next question order: %w", err)
		}
		return n, nil
	}
	if *want < 0 {
		return 0, apierr.Validation("invalid_order", "order must be >= 0")
	}
	for _, sib := range quiz.Questions {
		if sib.ID != self && sib.Order == *want {
			return 0, apierr.Conflict("order_taken", "order %d is used by another question", *want)
		}
	}
	return *want, nil
}

func requireSlug(p *string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(deref(p)))
	if slug == "" {
		return "", apierr.Validation("invalid_slug", "slug is required")
	}
	if !slugPattern.MatchString(slug) {
		return "", apierr.Validation("invalid_slug", "slug %q must be lowercase words joined by dashes", slug)
	}
	return slug, nil
}

func requireText(field string, p *string) (string, error) {
	v := strings.TrimSpace(deref(p))
	if v == "" {
		return "", apierr.Validation("invalid_"+field, "%s is required", field)
	}
	return v, nil
}

func currencyOrDefault(p *string) string {
	c := strings.ToUpper(strings.TrimSpace(deref(p)))
	if c == "" {
		return "IDR"
	}
	return c
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func nonEmpty(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefBool(p *bool) bool { return p != nil && *p }

func derefInt64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
