package generation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/catalog"
	"github.com/listforge/backend/internal/domain/integration"
	"github.com/listforge/backend/internal/domain/listing"
	"github.com/listforge/backend/internal/domain/research"
	"github.com/listforge/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PhaseService drives the phased generation workflow: title, bullets,
// description, then the backend phase that seals the listing. Each phase
// consumes the confirmed output of every earlier one, and regenerating a
// phase cascades invalidation over everything built on top of it.
type PhaseService struct {
	listingRepo     listing.Repository
	sectionRepo     listing.SectionRepository
	categoryRepo    catalog.CategoryRepository
	marketplaceRepo catalog.MarketplaceRepository
	productTypeRepo catalog.ProductTypeRepository
	analysisRepo    research.AnalysisRepository
	generator       integration.ListingGenerator
	logger          *zap.Logger
}

// NewPhaseService creates a new PhaseService
func NewPhaseService(
	listingRepo listing.Repository,
	sectionRepo listing.SectionRepository,
	categoryRepo catalog.CategoryRepository,
	marketplaceRepo catalog.MarketplaceRepository,
	productTypeRepo catalog.ProductTypeRepository,
	analysisRepo research.AnalysisRepository,
	generator integration.ListingGenerator,
	logger *zap.Logger,
) *PhaseService {
	return &PhaseService{
		listingRepo:     listingRepo,
		sectionRepo:     sectionRepo,
		categoryRepo:    categoryRepo,
		marketplaceRepo: marketplaceRepo,
		productTypeRepo: productTypeRepo,
		analysisRepo:    analysisRepo,
		generator:       generator,
		logger:          logger,
	}
}

// phaseContext carries the per-pair inputs every phase call needs: the
// marketplace, the effective character limits, and the assembled research.
type phaseContext struct {
	marketplace *catalog.Marketplace
	limits      catalog.CharacterLimits
	bulletCount int
	research    *ResearchInput
}

// confirmedText is the resolved upstream content a phase builds on
type confirmedText struct {
	title       string
	bullets     []string
	description string
	searchTerms string
}

func (s *PhaseService) prepareContext(ctx context.Context, categoryID, marketplaceID uuid.UUID, productTypeID *uuid.UUID) (*phaseContext, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	marketplace, err := s.marketplaceRepo.FindByID(ctx, marketplaceID)
	if err != nil {
		return nil, err
	}

	limits := catalog.DefaultCharacterLimits()
	bulletCount := 5
	if productTypeID != nil {
		productType, err := s.productTypeRepo.FindByID(ctx, *productTypeID)
		if err != nil {
			return nil, err
		}
		limits = productType.Limits()
		bulletCount = productType.BulletCount
	}

	rows, err := s.analysisRepo.FindByCategoryAndMarketplace(ctx, categoryID, marketplaceID)
	if err != nil {
		return nil, err
	}

	return &phaseContext{
		marketplace: marketplace,
		limits:      limits,
		bulletCount: bulletCount,
		research:    assembleResearchInput(rows),
	}, nil
}

// RunTitlePhase creates a listing and generates its title variants. The
// listing row and its sections are written together; if the sections cannot
// be persisted the fresh listing is rolled back rather than left empty.
func (s *PhaseService) RunTitlePhase(ctx context.Context, req TitlePhaseRequest) (*ListingResponse, error) {
	pc, err := s.prepareContext(ctx, req.CategoryID, req.MarketplaceID, req.ProductTypeID)
	if err != nil {
		return nil, err
	}

	l, sections, err := s.createWithTitle(ctx, req, pc)
	if err != nil {
		return nil, err
	}
	return ToListingResponse(l, dereference(sections)), nil
}

func (s *PhaseService) createWithTitle(ctx context.Context, req TitlePhaseRequest, pc *phaseContext) (*listing.Listing, []*listing.Section, error) {
	l, err := listing.NewListing(req.CategoryID, req.MarketplaceID, req.ProductName, req.Brand, req.Mode, req.ReferenceText)
	if err != nil {
		return nil, nil, err
	}
	l.ProductTypeID = req.ProductTypeID
	l.ASIN = strings.TrimSpace(req.ASIN)
	if err := l.SetCoverage(pc.research.InitialCoverage); err != nil {
		return nil, nil, err
	}

	result, err := s.generator.Generate(ctx, s.buildRequest(l, listing.PhaseTitle, pc, confirmedText{}))
	if err != nil {
		return nil, nil, err
	}
	sections, err := buildSections(l.ID, listing.PhaseTitle, result)
	if err != nil {
		return nil, nil, err
	}

	if err := l.SetCoverage(result.Coverage); err != nil {
		return nil, nil, err
	}
	l.RecordUsage(result.ModelID, result.TokensUsed)
	if err := l.AdvanceTo(listing.PhaseTitle); err != nil {
		return nil, nil, err
	}

	if err := s.listingRepo.Save(ctx, l); err != nil {
		return nil, nil, err
	}
	if err := s.sectionRepo.SaveBatch(ctx, sections); err != nil {
		// Roll back the listing row so a failed first phase leaves nothing
		// behind instead of an empty listing with no title.
		if delErr := s.listingRepo.Delete(ctx, l.ID); delErr != nil {
			s.logger.Error("failed to roll back listing after section write failure",
				zap.String("listing_id", l.ID.String()),
				zap.Error(delErr))
		}
		return nil, nil, err
	}

	s.logger.Info("title phase completed",
		zap.String("listing_id", l.ID.String()),
		zap.String("product_name", l.ProductName),
		zap.Int("tokens", result.TokensUsed))
	return l, sections, nil
}

// RunBulletsPhase generates or regenerates the bullet sections
func (s *PhaseService) RunBulletsPhase(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	return s.runPhase(ctx, listingID, listing.PhaseBullets)
}

// RunDescriptionPhase generates or regenerates the description and search
// terms sections.
func (s *PhaseService) RunDescriptionPhase(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	return s.runPhase(ctx, listingID, listing.PhaseDescription)
}

// RunBackendPhase generates the subject-matter keywords and writes the
// denormalized snapshot of all confirmed text, sealing the listing.
func (s *PhaseService) RunBackendPhase(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	return s.runPhase(ctx, listingID, listing.PhaseComplete)
}

func (s *PhaseService) runPhase(ctx context.Context, listingID uuid.UUID, phase listing.Phase) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	pc, err := s.prepareContext(ctx, l.CategoryID, l.MarketplaceID, l.ProductTypeID)
	if err != nil {
		return nil, err
	}
	if err := s.executePhase(ctx, l, phase, pc); err != nil {
		return nil, err
	}

	sections, err := s.sectionRepo.FindByListing(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return ToListingResponse(l, sections), nil
}

// executePhase runs one later phase against an already-loaded listing. The
// listing write is guarded by its version: two simultaneous regenerations of
// the same listing race on the compare-and-swap, and the loser gets a
// CONCURRENCY_CONFLICT instead of silently clobbering the winner's cascade.
func (s *PhaseService) executePhase(ctx context.Context, l *listing.Listing, phase listing.Phase, pc *phaseContext) error {
	if l.Phase.Rank() < phase.Rank()-1 {
		return shared.NewPreconditionError(fmt.Sprintf("Cannot run the %s phase while the listing is at phase %s", phase, l.Phase))
	}

	confirmed, err := s.resolveConfirmed(ctx, l, phase)
	if err != nil {
		return err
	}

	result, err := s.generator.Generate(ctx, s.buildRequest(l, phase, pc, confirmed))
	if err != nil {
		return err
	}
	sections, err := buildSections(l.ID, phase, result)
	if err != nil {
		return err
	}

	expectedVersion := l.GetVersion()
	if err := l.SetCoverage(result.Coverage); err != nil {
		return err
	}
	l.RecordUsage(result.ModelID, result.TokensUsed)
	if phase == listing.PhaseComplete {
		if err := l.SetSnapshot(confirmed.title, confirmed.bullets, confirmed.description, confirmed.searchTerms); err != nil {
			return err
		}
	}
	if l.Phase.Before(phase) {
		if err := l.AdvanceTo(phase); err != nil {
			return err
		}
	} else {
		l.RegenerateAt(phase)
	}

	// Claim the version first: a conflicting writer is turned away before
	// any section is deleted.
	if err := s.listingRepo.SaveWithVersion(ctx, l, expectedVersion); err != nil {
		return err
	}

	invalidated := phase.InvalidationSectionTypes()
	if err := s.sectionRepo.DeleteByListingAndTypes(ctx, l.ID, invalidated); err != nil {
		return err
	}
	if err := s.sectionRepo.SaveBatch(ctx, sections); err != nil {
		return err
	}

	s.logger.Info("phase completed",
		zap.String("listing_id", l.ID.String()),
		zap.String("phase", string(phase)),
		zap.Int("sections", len(sections)),
		zap.Int("tokens", result.TokensUsed))
	return nil
}

// resolveConfirmed loads the listing's sections and resolves the confirmed
// text each phase requires, through the final-text-or-selected-variant rule.
func (s *PhaseService) resolveConfirmed(ctx context.Context, l *listing.Listing, phase listing.Phase) (confirmedText, error) {
	var confirmed confirmedText
	if phase == listing.PhaseTitle {
		return confirmed, nil
	}

	sections, err := s.sectionRepo.FindByListing(ctx, l.ID)
	if err != nil {
		return confirmed, err
	}

	var bullets []listing.Section
	for i := range sections {
		section := &sections[i]
		switch section.Type {
		case listing.SectionTypeTitle:
			confirmed.title = section.ConfirmedText()
		case listing.SectionTypeBullet:
			bullets = append(bullets, sections[i])
		case listing.SectionTypeDescription:
			confirmed.description = section.ConfirmedText()
		case listing.SectionTypeSearchTerms:
			confirmed.searchTerms = section.ConfirmedText()
		}
	}
	sort.Slice(bullets, func(i, j int) bool { return bullets[i].Position < bullets[j].Position })
	for i := range bullets {
		if text := bullets[i].ConfirmedText(); text != "" {
			confirmed.bullets = append(confirmed.bullets, text)
		}
	}

	if confirmed.title == "" {
		return confirmed, shared.NewPreconditionError(fmt.Sprintf("The title must be confirmed before the %s phase", phase))
	}
	if phase.Rank() > listing.PhaseBullets.Rank() && len(confirmed.bullets) == 0 {
		return confirmed, shared.NewPreconditionError(fmt.Sprintf("At least one bullet must be confirmed before the %s phase", phase))
	}
	if phase == listing.PhaseComplete {
		if confirmed.description == "" {
			return confirmed, shared.NewPreconditionError("The description must be confirmed before the backend phase")
		}
		if confirmed.searchTerms == "" {
			return confirmed, shared.NewPreconditionError("Search terms must be confirmed before the backend phase")
		}
	}
	return confirmed, nil
}

func (s *PhaseService) buildRequest(l *listing.Listing, phase listing.Phase, pc *phaseContext, confirmed confirmedText) integration.GenerationRequest {
	return integration.GenerationRequest{
		Phase:                phase,
		ProductName:          l.ProductName,
		Brand:                l.Brand,
		ASIN:                 l.ASIN,
		MarketplaceCode:      pc.marketplace.Code,
		Language:             pc.marketplace.Language,
		Mode:                 l.Mode,
		ReferenceText:        l.ReferenceText,
		Limits:               pc.limits,
		BulletCount:          pc.bulletCount,
		VariantCount:         DefaultVariantCount,
		AnalysisSummaries:    pc.research.Summaries,
		ConfirmedTitle:       confirmed.title,
		ConfirmedBullets:     confirmed.bullets,
		ConfirmedDescription: confirmed.description,
		ConfirmedSearchTerms: confirmed.searchTerms,
		Coverage:             l.Coverage(),
	}
}

// buildSections turns a generation result into section rows, keeping only
// the section types the phase actually produces.
func buildSections(listingID uuid.UUID, phase listing.Phase, result *integration.GenerationResult) ([]*listing.Section, error) {
	allowed := make(map[listing.SectionType]bool)
	for _, sectionType := range phase.SectionTypes() {
		allowed[sectionType] = true
	}

	var sections []*listing.Section
	for _, generated := range result.Sections {
		if !allowed[generated.Type] {
			continue
		}
		section, err := listing.NewSection(listingID, generated.Type, generated.Position, generated.Variants)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	if len(sections) == 0 {
		return nil, shared.NewDomainError("PROVIDER_ERROR", fmt.Sprintf("Generation service returned no usable sections for the %s phase", phase))
	}
	return sections, nil
}

// GetListing returns a listing with its sections
func (s *PhaseService) GetListing(ctx context.Context, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sections, err := s.sectionRepo.FindByListing(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToListingResponse(l, sections), nil
}

// ListListings returns listings without their sections
func (s *PhaseService) ListListings(ctx context.Context, filter shared.Filter) ([]ListingResponse, int64, error) {
	listings, total, err := s.listingRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		responses = append(responses, *ToListingResponse(&listings[i], nil))
	}
	return responses, total, nil
}

// DeleteListing removes a listing and all of its sections
func (s *PhaseService) DeleteListing(ctx context.Context, id uuid.UUID) error {
	if _, err := s.listingRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.sectionRepo.DeleteByListing(ctx, id); err != nil {
		return err
	}
	return s.listingRepo.Delete(ctx, id)
}

// UpdateSection selects a variant or records a human override on one section
func (s *PhaseService) UpdateSection(ctx context.Context, listingID uuid.UUID, sectionType listing.SectionType, req UpdateSectionRequest) (*SectionResponse, error) {
	if !sectionType.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid section type: %s", sectionType))
	}
	if req.SelectedIndex == nil && req.FinalText == nil {
		return nil, shared.NewValidationError("Provide a selected variant index or final text")
	}

	sections, err := s.sectionRepo.FindByListingAndType(ctx, listingID, sectionType)
	if err != nil {
		return nil, err
	}
	var target *listing.Section
	for i := range sections {
		if sections[i].Position == req.Position {
			target = &sections[i]
			break
		}
	}
	if target == nil {
		return nil, shared.ErrNotFound
	}

	if req.SelectedIndex != nil {
		if err := target.SelectVariant(*req.SelectedIndex); err != nil {
			return nil, err
		}
	}
	if req.FinalText != nil {
		target.SetFinalText(*req.FinalText)
	}
	if err := s.sectionRepo.Save(ctx, target); err != nil {
		return nil, err
	}

	resp := ToSectionResponse(target)
	return &resp, nil
}

// BatchContext holds the shared inputs a batch run loads once and reuses
// for every item against the same (category, marketplace) pair.
type BatchContext struct {
	categoryID    uuid.UUID
	marketplaceID uuid.UUID
	pc            *phaseContext
}

// PrepareBatchContext validates the pair and assembles the shared research
// input a single time for the whole batch.
func (s *PhaseService) PrepareBatchContext(ctx context.Context, categoryID, marketplaceID uuid.UUID) (*BatchContext, error) {
	pc, err := s.prepareContext(ctx, categoryID, marketplaceID, nil)
	if err != nil {
		return nil, err
	}
	return &BatchContext{
		categoryID:    categoryID,
		marketplaceID: marketplaceID,
		pc:            pc,
	}, nil
}

// GenerateComplete runs all four phases back to back for one product spec
// with no human in the loop: every phase builds on the top-ranked variant
// of the one before it.
func (s *PhaseService) GenerateComplete(ctx context.Context, bc *BatchContext, item BatchItemSpec) (*listing.Listing, error) {
	l, _, err := s.createWithTitle(ctx, TitlePhaseRequest{
		CategoryID:    bc.categoryID,
		MarketplaceID: bc.marketplaceID,
		ProductName:   item.ProductName,
		Brand:         item.Brand,
		ASIN:          item.ASIN,
		Mode:          listing.ModeNew,
	}, bc.pc)
	if err != nil {
		return nil, err
	}

	for _, phase := range []listing.Phase{listing.PhaseBullets, listing.PhaseDescription, listing.PhaseComplete} {
		if err := s.executePhase(ctx, l, phase, bc.pc); err != nil {
			return nil, fmt.Errorf("%s phase: %w", phase, err)
		}
	}
	return l, nil
}

func dereference(sections []*listing.Section) []listing.Section {
	out := make([]listing.Section, 0, len(sections))
	for _, section := range sections {
		out = append(out, *section)
	}
	return out
}
