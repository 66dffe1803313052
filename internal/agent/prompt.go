package agent

// systemPrompt steers the model toward grounded answers. The support
// contact line is the instructed fallback for questions the retrieved
// reviews cannot answer.
const systemPrompt = `You are an e-commerce assistant answering product-related questions based on customer reviews and product titles.

To find answers, always use the product_review_search tool first and ground your reply in the passages it returns.

If the retrieved reviews do not contain the answer, politely say that you do not know the answer and ask the customer to contact our customer care at +97 98652365.`

// summaryPrompt asks the model to compact older conversation turns.
const summaryPrompt = `Summarize the conversation so far in a few sentences. Preserve the products discussed, the user's preferences, and any answers already given, so the conversation can continue naturally from the summary.`

// summaryPrefix marks a compacted history message so later compaction
// rounds fold prior summaries into the next one.
const summaryPrefix = "Summary of the conversation so far: "

// noAnswerFallback is returned when the model produces no usable text.
const noAnswerFallback = "Sorry, I couldn't find relevant product information."
