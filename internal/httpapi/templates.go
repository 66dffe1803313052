package httpapi

// chatPage is the single-page chat UI served at /. It posts the msg
// form field to /get and appends the plain-text reply.
const chatPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>ShopChat</title>
<style>
  body { font-family: system-ui, sans-serif; background: #f4f4f7; margin: 0; }
  main { max-width: 640px; margin: 2rem auto; padding: 0 1rem; }
  h1 { font-size: 1.25rem; color: #333; }
  #chat { background: #fff; border: 1px solid #ddd; border-radius: 8px;
          padding: 1rem; height: 420px; overflow-y: auto; }
  .msg { margin: 0.5rem 0; padding: 0.5rem 0.75rem; border-radius: 8px;
         white-space: pre-wrap; }
  .user { background: #e3f0ff; text-align: right; }
  .bot  { background: #f0f0f0; }
  form { display: flex; gap: 0.5rem; margin-top: 1rem; }
  input { flex: 1; padding: 0.5rem; border: 1px solid #ccc; border-radius: 6px; }
  button { padding: 0.5rem 1rem; border: 0; border-radius: 6px;
           background: #2563eb; color: #fff; cursor: pointer; }
</style>
</head>
<body>
<main>
  <h1>ShopChat &mdash; product review assistant</h1>
  <div id="chat"></div>
  <form id="form">
    <input id="msg" name="msg" autocomplete="off" placeholder="Ask about a product..." required>
    <button type="submit">Send</button>
  </form>
</main>
<script>
const chat = document.getElementById("chat");
const form = document.getElementById("form");
const input = document.getElementById("msg");

function append(text, cls) {
  const div = document.createElement("div");
  div.className = "msg " + cls;
  div.textContent = text;
  chat.appendChild(div);
  chat.scrollTop = chat.scrollHeight;
}

form.addEventListener("submit", async (e) => {
  e.preventDefault();
  const msg = input.value.trim();
  if (!msg) return;
  append(msg, "user");
  input.value = "";
  try {
    const resp = await fetch("/get", {
      method: "POST",
      headers: { "Content-Type": "application/x-www-form-urlencoded" },
      body: new URLSearchParams({ msg }),
    });
    append(await resp.text(), "bot");
  } catch (err) {
    append("Something went wrong. Please try again.", "bot");
  }
});
</script>
</body>
</html>
`
