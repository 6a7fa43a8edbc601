package executors

import (
	"bytes"
	"encoding/binary"
	"helin/buffer"
	"helin/catalog"
	"helin/common"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/plans"
	"sort"
)

// sortPageHeader is sortPage's on-disk header, marshalled the same way HeapPageHeader is: a fixed
// struct read/written through bytes.Buffer + encoding/binary rather than hand-rolled offsets.
type sortPageHeader struct {
	TupleCount    uint32
	TupleSize     uint32
	MaxTupleCount uint32
}

var sortPageHeaderSize = binary.Size(sortPageHeader{})

// sortPage is a fixed-width tuple array over one buffer-pool page: a run's working unit during
// external sorting. Grounded on external_merge_sort_executor.h's SortPage, adapted from BusTub's
// C-struct-over-char-array layout to this codebase's bytes.Buffer/binary.Read header convention.
type sortPage struct {
	data []byte
}

func newSortPage(data []byte) *sortPage {
	return &sortPage{data: data}
}

func (p *sortPage) getHeader() sortPageHeader {
	reader := bytes.NewReader(p.data)
	h := sortPageHeader{}
	binary.Read(reader, binary.BigEndian, &h)
	return h
}

func (p *sortPage) setHeader(h sortPageHeader) {
	buf := bytes.Buffer{}
	err := binary.Write(&buf, binary.BigEndian, &h)
	common.PanicIfErr(err)
	copy(p.data, buf.Bytes())
}

// Init formats the page for tuples of tupleSize bytes, discarding anything already on it.
func (p *sortPage) Init(tupleSize int) {
	maxCount := (len(p.data) - sortPageHeaderSize) / tupleSize
	p.setHeader(sortPageHeader{TupleCount: 0, TupleSize: uint32(tupleSize), MaxTupleCount: uint32(maxCount)})
}

func (p *sortPage) GetTupleCount() int {
	return int(p.getHeader().TupleCount)
}

func (p *sortPage) GetMaxTupleCount() int {
	return int(p.getHeader().MaxTupleCount)
}

func (p *sortPage) IsFull() bool {
	h := p.getHeader()
	return h.TupleCount >= h.MaxTupleCount
}

// InsertTuple appends data to the page, returning false if the page is already full.
func (p *sortPage) InsertTuple(data []byte) bool {
	h := p.getHeader()
	if h.TupleCount >= h.MaxTupleCount {
		return false
	}

	offset := sortPageHeaderSize + int(h.TupleCount)*int(h.TupleSize)
	copy(p.data[offset:offset+int(h.TupleSize)], data)

	h.TupleCount++
	p.setHeader(h)
	return true
}

// GetTuple returns the raw bytes of the tuple at idx. Valid only until the page is reused.
func (p *sortPage) GetTuple(idx int) []byte {
	h := p.getHeader()
	offset := sortPageHeaderSize + idx*int(h.TupleSize)
	return p.data[offset : offset+int(h.TupleSize)]
}

// Clear empties the page while keeping its tuple width and capacity.
func (p *sortPage) Clear() {
	h := p.getHeader()
	h.TupleCount = 0
	p.setHeader(h)
}

// mergeSortRun is a sorted sequence of tuples spread across one or more sortPages. Grounded on
// external_merge_sort_executor.h's MergeSortRun, backed here by the buffer pool's page guards
// instead of BusTub's ReadPageGuard wrapper.
type mergeSortRun struct {
	pages     []uint64
	pool      *buffer.BufferPoolManager
	tupleSize int
}

func (r *mergeSortRun) begin() *mergeSortRunIterator {
	it := &mergeSortRunIterator{run: r}
	it.loadPage()
	return it
}

// mergeSortRunIterator walks a run's tuples page by page, holding a read guard on whichever page
// is current. Go has no operator overloading, so BusTub's operator++/operator* become advance()
// and tuple(), and operator== against End() becomes valid().
type mergeSortRunIterator struct {
	run      *mergeSortRun
	pageIdx  int
	tupleIdx int
	guard    *buffer.ReadPageGuard
	page     *sortPage
}

func (it *mergeSortRunIterator) valid() bool {
	return it.page != nil
}

func (it *mergeSortRunIterator) tuple() []byte {
	return it.page.GetTuple(it.tupleIdx)
}

func (it *mergeSortRunIterator) advance() {
	it.tupleIdx++
	if it.page != nil && it.tupleIdx < it.page.GetTupleCount() {
		return
	}
	it.pageIdx++
	it.tupleIdx = 0
	it.loadPage()
}

func (it *mergeSortRunIterator) loadPage() {
	if it.guard != nil {
		it.guard.Drop()
		it.guard = nil
	}
	for it.pageIdx < len(it.run.pages) {
		g, err := buffer.FetchPageRead(it.run.pool, it.run.pages[it.pageIdx])
		common.PanicIfErr(err)
		p := newSortPage(g.GetData())
		if p.GetTupleCount() > 0 {
			it.guard = g
			it.page = p
			return
		}
		g.Drop()
		it.pageIdx++
	}
	it.page = nil
}

// tupleComparator orders raw tuple bytes by a plan's order-by list, falling through to the next
// key on a tie. Grounded on external_merge_sort_executor.cpp's GenerateSortKey/TupleComparator,
// expressed here directly in terms of db_types.Value.LessThanValue rather than a separate sort-key
// tuple, since IExpression.Eval already hands back comparable Values.
type tupleComparator struct {
	orderBys []plans.OrderBy
	schema   catalog.Schema
}

func (c *tupleComparator) less(a, b []byte) bool {
	ta := catalog.Tuple{Row: structures.Row{Data: a}}
	tb := catalog.Tuple{Row: structures.Row{Data: b}}

	for _, ob := range c.orderBys {
		va := ob.Expr.Eval(ta, c.schema)
		vb := ob.Expr.Eval(tb, c.schema)

		if va.LessThanValue(&vb) {
			return ob.Type != plans.Descending
		}
		if vb.LessThanValue(&va) {
			return ob.Type == plans.Descending
		}
	}
	return false
}

// ExternalMergeSortExecutor sorts its child's output by spilling fixed-width tuples to buffer-pool
// pages, sorting each page in memory, and repeatedly 2-way merging the resulting runs until one is
// left. Grounded on external_merge_sort_executor.cpp; BusTub itself only requires 2-way merges as
// of the assignment this is drawn from, so K is hardcoded rather than made a type parameter.
type ExternalMergeSortExecutor struct {
	BaseExecutor
	plan      *plans.SortPlanNode
	child     IExecutor
	cmp       *tupleComparator
	tupleSize int

	finalRun   mergeSortRun
	resultIter *mergeSortRunIterator
}

func NewExternalMergeSortExecutor(ctx *execution.ExecutorContext, plan *plans.SortPlanNode, child IExecutor) *ExternalMergeSortExecutor {
	return &ExternalMergeSortExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		child:        child,
	}
}

func (e *ExternalMergeSortExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func schemaTupleSize(s catalog.Schema) int {
	size := 0
	for _, col := range s.GetColumns() {
		size += int(col.InlinedSize())
	}
	return size
}

func (e *ExternalMergeSortExecutor) Init() {
	e.child.Init()

	schema := e.GetOutSchema()
	e.tupleSize = schemaTupleSize(schema)
	e.cmp = &tupleComparator{orderBys: e.plan.GetOrderBys(), schema: schema}

	runs := e.createInitialRuns()
	for len(runs) > 1 {
		runs = e.mergeRuns(runs)
	}

	if len(runs) == 1 {
		e.finalRun = runs[0]
	} else {
		e.finalRun = mergeSortRun{pool: e.executorCtx.Pool, tupleSize: e.tupleSize}
	}
	e.resultIter = e.finalRun.begin()
}

func (e *ExternalMergeSortExecutor) Next(t *catalog.Tuple, rid *structures.Rid) error {
	if !e.resultIter.valid() {
		return ErrNoTuple{}
	}

	data := e.resultIter.tuple()
	cp := make([]byte, len(data))
	copy(cp, data)
	*t = catalog.Tuple{Row: structures.Row{Data: cp}}
	*rid = structures.Rid{}

	e.resultIter.advance()
	return nil
}

// createInitialRuns drains the child executor into sort pages, sorting and emitting each one as a
// single-page run as soon as it fills.
func (e *ExternalMergeSortExecutor) createInitialRuns() []mergeSortRun {
	pool := e.executorCtx.Pool
	var runs []mergeSortRun

	guard, err := buffer.NewPageWrite(pool)
	common.PanicIfErr(err)
	page := newSortPage(guard.GetDataMut())
	page.Init(e.tupleSize)

	emitRun := func() {
		if page.GetTupleCount() == 0 {
			pid := guard.PageId()
			guard.Drop()
			pool.DeletePage(pid)
			return
		}
		e.sortPageTuples(page)
		runs = append(runs, mergeSortRun{pages: []uint64{guard.PageId()}, pool: pool, tupleSize: e.tupleSize})
		guard.Drop()
	}

	var rt catalog.Tuple
	var rr structures.Rid
	for e.child.Next(&rt, &rr) == nil {
		if page.InsertTuple(rt.GetData()) {
			continue
		}

		e.sortPageTuples(page)
		runs = append(runs, mergeSortRun{pages: []uint64{guard.PageId()}, pool: pool, tupleSize: e.tupleSize})
		guard.Drop()

		guard, err = buffer.NewPageWrite(pool)
		common.PanicIfErr(err)
		page = newSortPage(guard.GetDataMut())
		page.Init(e.tupleSize)
		if !page.InsertTuple(rt.GetData()) {
			panic("tuple does not fit in an empty sort page")
		}
	}
	emitRun()

	return runs
}

func (e *ExternalMergeSortExecutor) sortPageTuples(page *sortPage) {
	n := page.GetTupleCount()
	if n <= 1 {
		return
	}

	tuples := make([][]byte, n)
	for i := 0; i < n; i++ {
		cp := make([]byte, e.tupleSize)
		copy(cp, page.GetTuple(i))
		tuples[i] = cp
	}

	sort.SliceStable(tuples, func(i, j int) bool {
		return e.cmp.less(tuples[i], tuples[j])
	})

	page.Clear()
	for _, tup := range tuples {
		page.InsertTuple(tup)
	}
}

// mergeRuns pairs up consecutive runs and 2-way merges each pair, carrying an odd run out
// unchanged. Only pages belonging to runs that were actually merged are freed; a carried-over
// run's pages must survive into the next round.
func (e *ExternalMergeSortExecutor) mergeRuns(runs []mergeSortRun) []mergeSortRun {
	pool := e.executorCtx.Pool
	var out []mergeSortRun

	i := 0
	for ; i+1 < len(runs); i += 2 {
		merged := e.mergeTwoRuns(runs[i], runs[i+1])
		out = append(out, merged)

		for _, pid := range runs[i].pages {
			pool.DeletePage(pid)
		}
		for _, pid := range runs[i+1].pages {
			pool.DeletePage(pid)
		}
	}
	if i < len(runs) {
		out = append(out, runs[i])
	}

	return out
}

// mergeTwoRuns performs a classic two-way merge of a and b into a freshly allocated chain of sort
// pages, returning the resulting run. Neither input run's pages are touched here; the caller frees
// them once the merge completes.
func (e *ExternalMergeSortExecutor) mergeTwoRuns(a, b mergeSortRun) mergeSortRun {
	pool := e.executorCtx.Pool
	result := mergeSortRun{pool: pool, tupleSize: e.tupleSize}

	guard, err := buffer.NewPageWrite(pool)
	common.PanicIfErr(err)
	page := newSortPage(guard.GetDataMut())
	page.Init(e.tupleSize)

	appendTuple := func(data []byte) {
		if page.InsertTuple(data) {
			return
		}
		result.pages = append(result.pages, guard.PageId())
		guard.Drop()

		guard, err = buffer.NewPageWrite(pool)
		common.PanicIfErr(err)
		page = newSortPage(guard.GetDataMut())
		page.Init(e.tupleSize)
		if !page.InsertTuple(data) {
			panic("tuple does not fit in an empty sort page")
		}
	}

	ia, ib := a.begin(), b.begin()
	for ia.valid() && ib.valid() {
		if e.cmp.less(ia.tuple(), ib.tuple()) {
			appendTuple(ia.tuple())
			ia.advance()
		} else {
			appendTuple(ib.tuple())
			ib.advance()
		}
	}
	for ia.valid() {
		appendTuple(ia.tuple())
		ia.advance()
	}
	for ib.valid() {
		appendTuple(ib.tuple())
		ib.advance()
	}

	if page.GetTupleCount() > 0 {
		result.pages = append(result.pages, guard.PageId())
		guard.Drop()
	} else {
		pid := guard.PageId()
		guard.Drop()
		pool.DeletePage(pid)
	}

	return result
}
