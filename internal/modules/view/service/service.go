package view

import (
	"context"
	"sort"
	"sync"

	"anoa.com/kgscp/internal/entity"
	attachmentDto "anoa.com/kgscp/internal/modules/attachment/dto"
	attachment "anoa.com/kgscp/internal/modules/attachment/service"
	commentDto "anoa.com/kgscp/internal/modules/comment/dto"
	comment "anoa.com/kgscp/internal/modules/comment/service"
	message "anoa.com/kgscp/internal/modules/message/service"
	postDto "anoa.com/kgscp/internal/modules/post/dto"
	post "anoa.com/kgscp/internal/modules/post/service"
	profileDto "anoa.com/kgscp/internal/modules/profile/dto"
	profile "anoa.com/kgscp/internal/modules/profile/service"
	reaction "anoa.com/kgscp/internal/modules/reaction/service"
	viewDto "anoa.com/kgscp/internal/modules/view/dto"
	"anoa.com/kgscp/pkg/apperror"
	commonDto "anoa.com/kgscp/pkg/dto"
	"anoa.com/kgscp/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Mutation is the write that precedes a reload. A nil Mutation loads only.
type Mutation func(ctx context.Context) error

// ViewService reloads a whole view after every write and commits it through the Guard.
// A load without a mutation returns apperror.ErrStaleView when a newer load of the same
// view started before it finished.
type ViewService interface {
	Board(ctx context.Context, viewer *entity.Profile, filter postDto.BoardFilter, m Mutation) (*viewDto.BoardView, error)
	PostPage(ctx context.Context, viewer *entity.Profile, postID uuid.UUID, m Mutation) (*viewDto.PostPageView, error)
	// PostPageAfter loads the page of the post that m reports, for writes whose target
	// post is only known once they ran.
	PostPageAfter(ctx context.Context, viewer *entity.Profile, m func(ctx context.Context) (uuid.UUID, error)) (*viewDto.PostPageView, error)
	// Inbox includes the conversation with *partner when partner is non-nil. The pointer
	// is read after m runs, so m may fill it.
	Inbox(ctx context.Context, viewer *entity.Profile, partner *uuid.UUID, m Mutation) (*viewDto.InboxView, error)
	Profile(ctx context.Context, viewer *entity.Profile, m Mutation) (*viewDto.ProfileView, error)
	// Clear forgets every committed view of viewer.
	Clear(viewer uuid.UUID)
}

type viewService struct {
	guard         *Guard
	postSvc       post.PostService
	commentSvc    comment.CommentService
	reactionSvc   reaction.ReactionService
	attachmentSvc attachment.AttachmentService
	profileSvc    profile.ProfileService
	session       profile.SessionCache
	messageSvc    message.MessageService
}

func NewViewService(
	guard *Guard,
	postSvc post.PostService,
	commentSvc comment.CommentService,
	reactionSvc reaction.ReactionService,
	attachmentSvc attachment.AttachmentService,
	profileSvc profile.ProfileService,
	session profile.SessionCache,
	messageSvc message.MessageService,
) ViewService {
	return &viewService{
		guard:         guard,
		postSvc:       postSvc,
		commentSvc:    commentSvc,
		reactionSvc:   reactionSvc,
		attachmentSvc: attachmentSvc,
		profileSvc:    profileSvc,
		session:       session,
		messageSvc:    messageSvc,
	}
}

// refresh runs the mutation, then the load, and commits the result if no newer load of
// the slot has started in the meantime. The load's generation is taken after the mutation
// succeeds, so a failed write never supersedes another load.
//
// A superseded plain load returns apperror.ErrStaleView. A superseded load that follows a
// successful mutation returns the newer committed view when there is one, otherwise its
// own fresh result. The write is never reported as failed.
func refresh[T any](ctx context.Context, g *Guard, slot Slot, m Mutation, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if m != nil {
		if err := m(ctx); err != nil {
			return zero, err
		}
	}

	token := g.Begin(slot)
	vm, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if g.Commit(token, vm) {
		return vm, nil
	}
	if m == nil {
		return zero, apperror.ErrStaleView
	}
	if current, ok := g.CommittedAfter(token); ok {
		if newer, ok := current.(T); ok {
			return newer, nil
		}
	}
	return vm, nil
}

// sections collects the names of composite-load sections that failed.
type sections struct {
	mu   sync.Mutex
	list []commonDto.SectionError
}

func (d *sections) fail(section string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.list = append(d.list, commonDto.SectionError{Section: section, Error: err.Error()})
}

func (d *sections) result() []commonDto.SectionError {
	d.mu.Lock()
	defer d.mu.Unlock()
	sort.Slice(d.list, func(i, j int) bool { return d.list[i].Section < d.list[j].Section })
	return append([]commonDto.SectionError{}, d.list...)
}

func (s *viewService) Board(ctx context.Context, viewer *entity.Profile, filter postDto.BoardFilter, m Mutation) (*viewDto.BoardView, error) {
	slot := Slot{Viewer: viewer.ID, Kind: KindBoard}
	return refresh(ctx, s.guard, slot, m, func(ctx context.Context) (*viewDto.BoardView, error) {
		summaries, err := s.postSvc.ListBoard(ctx, filter)
		if err != nil {
			return nil, err
		}
		return &viewDto.BoardView{
			Category: filter.Category,
			Query:    filter.Query,
			Posts:    post.ToResponses(summaries, viewer.ID, viewer.IsAdmin()),
		}, nil
	})
}

func (s *viewService) PostPage(ctx context.Context, viewer *entity.Profile, postID uuid.UUID, m Mutation) (*viewDto.PostPageView, error) {
	slot := Slot{Viewer: viewer.ID, Kind: KindPost}
	return refresh(ctx, s.guard, slot, m, func(ctx context.Context) (*viewDto.PostPageView, error) {
		return s.loadPostPage(ctx, viewer, postID)
	})
}

func (s *viewService) PostPageAfter(ctx context.Context, viewer *entity.Profile, m func(ctx context.Context) (uuid.UUID, error)) (*viewDto.PostPageView, error) {
	var postID uuid.UUID
	slot := Slot{Viewer: viewer.ID, Kind: KindPost}
	mutation := func(ctx context.Context) error {
		id, err := m(ctx)
		postID = id
		return err
	}
	return refresh(ctx, s.guard, slot, mutation, func(ctx context.Context) (*viewDto.PostPageView, error) {
		return s.loadPostPage(ctx, viewer, postID)
	})
}

// loadPostPage fetches the four sections in parallel. Only a failed post fetch fails the
// page; the other sections come back empty and are listed in Degraded.
func (s *viewService) loadPostPage(ctx context.Context, viewer *entity.Profile, postID uuid.UUID) (*viewDto.PostPageView, error) {
	var (
		summary  *entity.PostSummary
		vm       = &viewDto.PostPageView{}
		degraded sections
		g, gctx  = errgroup.WithContext(ctx)
	)

	g.Go(func() error {
		var err error
		summary, err = s.postSvc.GetSummary(gctx, postID)
		return err
	})
	g.Go(func() error {
		nodes, err := s.commentSvc.ListForPost(gctx, postID)
		if err != nil {
			degraded.fail("comments", err)
			return nil
		}
		vm.Comments = comment.ToResponse(nodes, viewer.ID, viewer.IsAdmin())
		vm.CommentCount = comment.Count(nodes)
		return nil
	})
	g.Go(func() error {
		reactions, err := s.reactionSvc.GetReactions(gctx, viewer.ID, postID)
		if err != nil {
			degraded.fail("reactions", err)
			return nil
		}
		vm.Reactions = *reactions
		return nil
	})
	g.Go(func() error {
		attachments, err := s.attachmentSvc.ListForPost(gctx, postID)
		if err != nil {
			degraded.fail("attachments", err)
			return nil
		}
		vm.Attachments = attachments
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	vm.Post = post.ToResponse(*summary, viewer.ID, viewer.IsAdmin())
	vm.Degraded = degraded.result()
	if vm.Comments == nil {
		vm.Comments = []commentDto.CommentResponse{}
	}
	if vm.Attachments == nil {
		vm.Attachments = []attachmentDto.AttachmentResponse{}
	}
	for _, d := range vm.Degraded {
		logger.L.Warn("post page section degraded", zap.String("post_id", postID.String()), zap.String("section", d.Section), zap.String("error", d.Error))
	}
	return vm, nil
}

func (s *viewService) Inbox(ctx context.Context, viewer *entity.Profile, partner *uuid.UUID, m Mutation) (*viewDto.InboxView, error) {
	slot := Slot{Viewer: viewer.ID, Kind: KindInbox}
	return refresh(ctx, s.guard, slot, m, func(ctx context.Context) (*viewDto.InboxView, error) {
		return s.loadInbox(ctx, viewer.ID, partner)
	})
}

func (s *viewService) loadInbox(ctx context.Context, me uuid.UUID, partner *uuid.UUID) (*viewDto.InboxView, error) {
	var (
		students []entity.Profile
		messages []entity.Message
		vm       = &viewDto.InboxView{Partner: partner}
		degraded sections
		g        errgroup.Group
	)

	g.Go(func() error {
		var err error
		if students, err = s.profileSvc.Directory(ctx, me, profileDto.DirectoryFilter{}); err != nil {
			degraded.fail("students", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if messages, err = s.messageSvc.ListForUser(ctx, me); err != nil {
			degraded.fail("messages", err)
		}
		return nil
	})
	_ = g.Wait()

	names := make(map[uuid.UUID]string, len(students))
	for _, p := range students {
		names[p.ID] = p.Name
	}

	vm.Degraded = degraded.result()
	parts := message.Partition(messages, me)
	vm.Students = profileDto.ToPublicList(students)
	vm.IncomingPending = parts.IncomingPending
	vm.Outgoing = parts.Outgoing
	vm.OnHold = parts.OnHold
	vm.ChatPartners = []viewDto.ChatPartner{}
	for _, id := range message.ChatPartners(parts.ChatEligible, me) {
		vm.ChatPartners = append(vm.ChatPartners, viewDto.ChatPartner{ID: id, Name: names[id]})
	}
	vm.Conversation = []entity.Message{}
	if partner != nil {
		vm.Conversation = message.Conversation(parts.ChatEligible, me, *partner)
	}
	return vm, nil
}

func (s *viewService) Profile(ctx context.Context, viewer *entity.Profile, m Mutation) (*viewDto.ProfileView, error) {
	slot := Slot{Viewer: viewer.ID, Kind: KindProfile}
	return refresh(ctx, s.guard, slot, m, func(ctx context.Context) (*viewDto.ProfileView, error) {
		p, err := s.session.Refresh(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
		return &viewDto.ProfileView{Profile: p}, nil
	})
}

func (s *viewService) Clear(viewer uuid.UUID) {
	s.guard.Clear(viewer)
}
